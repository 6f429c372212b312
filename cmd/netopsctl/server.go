package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/babasida246/NetOpsAI-sub007/pkg/audit"
	"github.com/babasida246/NetOpsAI-sub007/pkg/config"
	"github.com/babasida246/NetOpsAI-sub007/pkg/logging"
	"github.com/babasida246/NetOpsAI-sub007/pkg/server"
	"github.com/babasida246/NetOpsAI-sub007/pkg/server/endpoints"
)

const shutdownTimeout = 10 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8080"
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the NetOps governance server",
	Long: `Run the NetOps governance server.

The server needs NETOPS_JWT_SIGNING_KEY to accept bearer tokens. With
--store postgres it also needs DATABASE_URL, and database migrations are
run on startup unless --no-migrate is set.

Idle interactive sessions are closed by a sweeper running alongside the
HTTP server.`,
	Run: func(cmd *cobra.Command, args []string) {
		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		storeKind, _ := cmd.Flags().GetString("store")
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")

		if err := runServer(host, port, storeKind, noMigrate); err != nil {
			fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().String("store", defaultStore(), "governance store (memory or postgres)")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

func runServer(host, port, storeKind string, noMigrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := logging.Init(cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logging.L()
	if cfg.JWTSigningKey == "" {
		log.Warnw("NETOPS_JWT_SIGNING_KEY is not set, every protected request will be rejected")
	}

	if storeKind == storePostgres && !noMigrate {
		log.Infow("running database migrations")
		if err := runMigrations(); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	store, err := openStore(storeKind)
	if err != nil {
		return err
	}

	recorder, closeAudit, err := audit.FromEnv()
	if err != nil {
		return fmt.Errorf("failed to open audit store: %w", err)
	}
	defer func() { _ = closeAudit() }()
	recorder.SetEnabled(cfg.AuditEnabled)

	s := server.NewServer(server.Deps{
		Config:     cfg,
		Governance: store,
		Recorder:   recorder,
	}, host, port)
	endpoints.RegisterAll(s)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("server listening", "addr", s.Addr(), "store", storeKind, "environment", cfg.DefaultEnvironment)
		return s.Start()
	})
	g.Go(func() error {
		return s.Sessions.RunSweeper(ctx, cfg.SweepInterval())
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Infow("shutting down")
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
