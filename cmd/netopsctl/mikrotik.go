package main

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/babasida246/NetOpsAI-sub007/pkg/mikrotik"
)

// mikrotikCmd represents the mikrotik command
var mikrotikCmd = &cobra.Command{
	Use:   "mikrotik",
	Short: "Compile and validate RouterOS configuration",
	Long:  `Offline MikroTik tooling: compile an intent document or validate a RouterOS script.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'mikrotik' requires a subcommand (compile, validate)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(mikrotikCmd)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
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
	return table
}

// printReport writes the findings of r and reports whether it is valid.
func printReport(w io.Writer, r mikrotik.Report) bool {
	if len(r.Errors) == 0 && len(r.Warnings) == 0 {
		fmt.Fprintln(w, "No findings.")
		return r.Valid
	}
	table := newTable(w, "SEVERITY", "ID", "FIELD", "MESSAGE")
	for _, m := range r.Errors {
		table.Append([]string{"error", m.ID, m.Field, m.Message})
	}
	for _, m := range r.Warnings {
		table.Append([]string{"warning", m.ID, m.Field, m.Message})
	}
	table.Render()
	return r.Valid
}
