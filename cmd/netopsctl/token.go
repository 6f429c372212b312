package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/babasida246/NetOpsAI-sub007/pkg/changecontrol"
	"github.com/babasida246/NetOpsAI-sub007/pkg/config"
	"github.com/babasida246/NetOpsAI-sub007/pkg/identity"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Issue a bearer token signed with the configured key",
	Long: `Issue an HS256 bearer token for a user, signed with the configured
NETOPS_JWT_SIGNING_KEY. Intended for bootstrap and testing.

Example:
  netopsctl token alice --role admin --ttl 1h`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		roleName, _ := cmd.Flags().GetString("role")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		token, err := issueToken(args[0], roleName, ttl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().String("role", changecontrol.RoleViewer.String(), "role claim (viewer, netops, admin, super_admin)")
	tokenCmd.Flags().Duration("ttl", time.Hour, "token lifetime")
}

func issueToken(userID, roleName string, ttl time.Duration) (string, error) {
	role, err := changecontrol.ParseRole(roleName)
	if err != nil {
		return "", err
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.JWTSigningKey == "" {
		return "", fmt.Errorf("NETOPS_JWT_SIGNING_KEY is not set")
	}
	return identity.IssueToken([]byte(cfg.JWTSigningKey), userID, role, ttl, time.Now())
}
