package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "netopsctl",
	Short: "Network change governance server and tooling",
	Long: `netopsctl runs the NetOps governance API and the offline tooling around it:
policy management, schema migrations and the MikroTik intent compiler.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
