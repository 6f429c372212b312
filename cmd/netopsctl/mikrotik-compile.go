package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/babasida246/NetOpsAI-sub007/pkg/mikrotik"
)

// mikrotikCompileCmd represents the mikrotik compile command
var mikrotikCompileCmd = &cobra.Command{
	Use:   "compile <intent.yml>",
	Short: "Compile a MikroTik intent into a RouterOS script",
	Long: `Compile a MikroTik intent document into a RouterOS script.

The script is printed by default. --rollback prints the rollback script
instead and --plan prints the change plan with its risk assessment.
The command exits non-zero when the intent does not validate.

Example:
  netopsctl mikrotik compile core-router.yml
  netopsctl mikrotik compile core-router.yml --plan
  netopsctl mikrotik compile core-router.yml --output json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rollback, _ := cmd.Flags().GetBool("rollback")
		plan, _ := cmd.Flags().GetBool("plan")
		output, _ := cmd.Flags().GetString("output")

		out, err := compileIntentFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to compile intent: %v\n", err)
			os.Exit(1)
		}

		switch {
		case output == "json":
			data, _ := json.MarshalIndent(out, "", "  ")
			fmt.Println(string(data))
		case plan:
			printPlan(os.Stdout, out)
		case rollback:
			fmt.Print(out.Rollback)
		default:
			fmt.Print(out.Config)
		}

		if !out.Validation.Valid {
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, "Intent does not validate; the script is advisory:")
			printReport(os.Stderr, out.Validation)
			os.Exit(1)
		}
	},
}

func init() {
	mikrotikCmd.AddCommand(mikrotikCompileCmd)
	mikrotikCompileCmd.Flags().Bool("rollback", false, "print the rollback script")
	mikrotikCompileCmd.Flags().Bool("plan", false, "print the change plan and risk")
	mikrotikCompileCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func compileIntentFile(path string) (mikrotik.Output, error) {
	file, err := os.Open(path)
	if err != nil {
		return mikrotik.Output{}, err
	}
	defer func() { _ = file.Close() }()

	intent, err := mikrotik.LoadIntent(file)
	if err != nil {
		return mikrotik.Output{}, err
	}
	return mikrotik.Compile(intent)
}

func printPlan(w io.Writer, out mikrotik.Output) {
	table := newTable(w, "MODULE", "STEP", "AFFECTED", "NOTES")
	for _, step := range out.Plan {
		table.Append([]string{step.Module, step.Title, strconv.Itoa(step.Affected), step.Notes})
	}
	table.Render()

	fmt.Fprintf(w, "\nRisk: %s\n", out.Risk.Level)
	for _, reason := range out.Risk.Reasons {
		fmt.Fprintf(w, "  - %s\n", reason)
	}
	if len(out.Assumptions) > 0 {
		fmt.Fprintf(w, "\nAssumptions:\n  - %s\n", strings.Join(out.Assumptions, "\n  - "))
	}
	if len(out.VersionNotes) > 0 {
		fmt.Fprintf(w, "\nRouterOS notes:\n  - %s\n", strings.Join(out.VersionNotes, "\n  - "))
	}
}
