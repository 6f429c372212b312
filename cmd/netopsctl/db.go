package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// dbCmd groups the schema commands. Applied versions are tracked in the
// go_schema_migrations table.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the governance database schema",
	Long: `Manage the policy, approval, maintenance window, evidence and audit
tables of the governance store.

DATABASE_URL must point at the PostgreSQL database the server uses.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = cmd.Help()
		return fmt.Errorf("command 'db' requires a subcommand (%s)", strings.Join(subcommandNames(cmd), ", "))
	},
}

func subcommandNames(cmd *cobra.Command) []string {
	var names []string
	for _, c := range cmd.Commands() {
		if c.IsAvailableCommand() {
			names = append(names, c.Name())
		}
	}
	return names
}

func init() {
	rootCmd.AddCommand(dbCmd)
}
