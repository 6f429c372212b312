package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
)

// policyListCmd represents the policy list command
var policyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored policies",
	Long: `List the stored command policies, most recent first.

Example:
  netopsctl policy list`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		storeKind, _ := cmd.Flags().GetString("store")

		store, err := openStore(storeKind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
			os.Exit(1)
		}
		policies, err := store.ListPolicies(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list policies: %v\n", err)
			os.Exit(1)
		}
		printPolicies(os.Stdout, policies)
	},
}

func init() {
	policyCmd.AddCommand(policyListCmd)
}

func printPolicies(w io.Writer, policies []governance.Policy) {
	if len(policies) == 0 {
		fmt.Fprintln(w, "No policies stored; every environment resolves to the default policy.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "NAME", "ENVIRONMENT", "APPROVAL", "ALLOW", "DENY", "DANGEROUS"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	for _, p := range policies {
		approval := "no"
		if p.RequireApproval {
			approval = "yes"
		}
		table.Append([]string{
			p.ID,
			p.Name,
			string(p.Environment),
			approval,
			strings.Join(p.AllowList, ", "),
			strings.Join(p.DenyList, ", "),
			strings.Join(p.DangerousList, ", "),
		})
	}
	table.Render()
}
