package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/babasida246/NetOpsAI-sub007/pkg/audit"
	"github.com/babasida246/NetOpsAI-sub007/pkg/governance"
)

// policyWatchCmd represents the policy watch command
var policyWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a policy file and reload it when it changes",
	Long: `Load a YAML policy file, then watch it and load it again whenever it is
written or replaced.

Example:
  netopsctl policy watch /etc/netops/policies.yml`,
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

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := watchPolicy(ctx, store, recorder, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch policy: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	policyCmd.AddCommand(policyWatchCmd)
}

// watchPolicy loads filename, then reloads it on every change until ctx is
// done. The parent directory is watched so that editors which replace the
// file by renaming are noticed.
func watchPolicy(ctx context.Context, store governance.Store, recorder *audit.Recorder, filename string) error {
	path, err := filepath.Abs(filename)
	if err != nil {
		return err
	}

	reload := func() {
		result, err := loadPolicyFile(ctx, store, recorder, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading policy: %v\n", err)
			return
		}
		fmt.Printf("[%s] Policy loaded: %d created, %d updated\n",
			time.Now().Format(time.RFC3339), result.Created, result.Updated)
	}
	reload()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	fmt.Printf("Watching %s for policy changes\n", path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-ctx.Done():
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}
