package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/babasida246/NetOpsAI-sub007/pkg/audit"
	"github.com/babasida246/NetOpsAI-sub007/pkg/server/endpoints"
)

// governanceTables are emptied before every scenario
var governanceTables = []string{
	"policies",
	"approval_requests",
	"maintenance_windows",
	"jit_grants",
	"break_glass_events",
	"evidence_cases",
	"audit_logs",
}

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB          *gorm.DB
	RawDB       *sql.DB
	Container   testcontainers.Container
	DatabaseURL string
	SigningKey  string
	HTTPClient  *http.Client
	Server      *ServerInstance

	// set in memory mode only
	memory    *httptest.Server
	memoryLog *audit.Memory
}

// NewTestContext creates a new test context with a PostgreSQL testcontainer.
// Modes:
//   - Binary mode (default): Set NETOPS_BINARY to the path of the netopsctl binary
//   - Inline mode: Set NETOPS_INLINE=1 to run the server in-process (no binary needed)
func NewTestContext(ctx context.Context) (*TestContext, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	inlineMode := os.Getenv("NETOPS_INLINE") == "1"
	binaryPath := os.Getenv("NETOPS_BINARY")

	if !inlineMode && binaryPath == "" {
		return nil, fmt.Errorf("Either NETOPS_BINARY or NETOPS_INLINE=1 is required.\n\nBinary mode:\n  go build -o netopsctl ./cmd/netopsctl\n  INTEGRATION_TEST=1 NETOPS_BINARY=$(pwd)/netopsctl go test -v ./test/integration/...\n\nInline mode:\n  INTEGRATION_TEST=1 NETOPS_INLINE=1 go test -v ./test/integration/...")
	}
	if !inlineMode {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("NETOPS_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("netops_test"),
		tcpostgres.WithUsername("netops"),
		tcpostgres.WithPassword("netops"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := runMigrations(migrationsDir, connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	rawDB, err := db.DB()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get raw db: %w", err)
	}

	tc := &TestContext{
		DB:          db,
		RawDB:       rawDB,
		Container:   pgContainer,
		DatabaseURL: connStr,
		SigningKey:  endpoints.TestSigningKey,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}

	if inlineMode {
		tc.Server, err = startInlineServer(db, rawDB)
	} else {
		tc.Server, err = startBinaryServer(binaryPath, connStr, tc.SigningKey)
	}
	if err != nil {
		tc.Close(ctx)
		return nil, err
	}
	return tc, nil
}

// ServerURL is the base URL of the server under test
func (tc *TestContext) ServerURL() string {
	if tc.memory != nil {
		return tc.memory.URL
	}
	return tc.Server.URL
}

// Reset gives the next scenario empty stores. In memory mode the server is
// replaced; against Postgres the governance tables are emptied and
// sessions, which live in the server's memory, are left alone.
func (tc *TestContext) Reset(ctx context.Context) error {
	if tc.DB == nil {
		tc.restartMemoryServer()
		return nil
	}
	for _, table := range governanceTables {
		if err := tc.DB.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// CountAudit counts the audit entries recorded for action. An empty userID
// matches every user.
func (tc *TestContext) CountAudit(ctx context.Context, action, userID string) (int, error) {
	if tc.DB == nil {
		n := 0
		for _, e := range tc.memoryLog.Entries() {
			if e.Action == action && (userID == "" || e.UserID == userID) {
				n++
			}
		}
		return n, nil
	}

	query := tc.DB.WithContext(ctx).Table("audit_logs").Where("action = ?", action)
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	var n int64
	if err := query.Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.memory != nil {
		tc.memory.Close()
	}
	if tc.Server != nil {
		tc.Server.Stop()
	}
	if tc.RawDB != nil {
		_ = tc.RawDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// findProjectRoot locates the project root directory
func findProjectRoot() (string, error) {
	for _, p := range []string{"../..", "..", "."} {
		if _, err := os.Stat(filepath.Join(p, "go.mod")); err == nil {
			return filepath.Abs(p)
		}
	}
	return "", fmt.Errorf("project root not found (looking for go.mod)")
}

// runMigrations applies the up migrations the same way netopsctl db migrate does
func runMigrations(migrationsDir, dbURL string) error {
	m, err := migrate.New("file://"+migrationsDir, dbURL+"&x-migrations-table=go_schema_migrations")
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
