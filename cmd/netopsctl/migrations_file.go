//go:build !embed_migrations

package main

import (
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const defaultMigrationsPath = "db/migrations"

// migrationsPath honours NETOPS_MIGRATIONS_PATH for runs outside the
// repository root.
func migrationsPath() string {
	if p := os.Getenv("NETOPS_MIGRATIONS_PATH"); p != "" {
		return p
	}
	return defaultMigrationsPath
}

// migrationsSource describes where this build reads the governance schema.
func migrationsSource() string {
	return "file://" + migrationsPath()
}

func createMigrateInstance(dbURL string) (*migrate.Migrate, error) {
	return migrate.New(migrationsSource(), dbURL)
}

func listMigrationFiles() ([]string, error) {
	return upMigrations(os.DirFS(migrationsPath()))
}
