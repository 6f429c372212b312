package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/babasida246/NetOpsAI-sub007/pkg/mikrotik"
)

// mikrotikValidateCmd represents the mikrotik validate command
var mikrotikValidateCmd = &cobra.Command{
	Use:   "validate <script>",
	Short: "Validate a RouterOS script",
	Long: `Check a RouterOS script for missing baseline firewall rules and common
hardening gaps. The command exits non-zero when any error is found.

Example:
  netopsctl mikrotik validate core-1.rsc --version 7.14`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		version, _ := cmd.Flags().GetString("version")

		script, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read script: %v\n", err)
			os.Exit(1)
		}

		report := mikrotik.ValidateRouterOSConfig(string(script), version)
		if !printReport(os.Stdout, report) {
			os.Exit(1)
		}
	},
}

func init() {
	mikrotikCmd.AddCommand(mikrotikValidateCmd)
	mikrotikValidateCmd.Flags().String("version", "7", "target RouterOS version")
}
