package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/babasida246/NetOpsAI-sub007/pkg/audit"
	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
)

// cliActor is the user recorded for changes made from the command line
const cliActor = "netopsctl"

// policyLoadCmd represents the policy load command
var policyLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load a policy file",
	Long: `Load a YAML policy file into the governance store.

A stored policy with the same name and environment is updated in place;
every other policy in the file is created.

Example:
  netopsctl policy load policies.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		storeKind, _ := cmd.Flags().GetString("store")

		store, err := openStore(storeKind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
			os.Exit(1)
		}
		recorder, closeAudit, err := audit.FromEnv()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open audit store: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = closeAudit() }()

		result, err := loadPolicyFile(context.Background(), store, recorder, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load policy: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Policy file loaded: %d created, %d updated\n", result.Created, result.Updated)
	},
}

func init() {
	policyCmd.AddCommand(policyLoadCmd)
}

// loadPolicyFile applies the policy document at path to store and records
// the outcome.
func loadPolicyFile(ctx context.Context, store governance.Store, recorder *audit.Recorder, path string) (governance.ApplyResult, error) {
	event := audit.PolicyEvent{
		UserID:      cliActor,
		PolicyID:    path,
		Environment: string(governance.EnvAll),
		Operation:   "load",
	}

	file, err := governance.LoadPolicyFile(path)
	if err == nil {
		var result governance.ApplyResult
		result, err = file.Apply(ctx, store)
		if err == nil {
			event.Success = true
			recorder.Record(ctx, event)
			return result, nil
		}
	}
	event.ErrorMessage = err.Error()
	recorder.Record(ctx, event)
	return governance.ApplyResult{}, err
}
