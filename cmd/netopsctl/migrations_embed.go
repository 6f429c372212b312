//go:build embed_migrations

package main

import (
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/babasida246/NetOpsAI-sub007/db"
)

// migrationsSource describes where this build reads the governance schema.
func migrationsSource() string {
	return "embedded governance schema"
}

func embeddedMigrations() (fs.FS, error) {
	fsys, err := fs.Sub(db.Migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to get embedded migrations: %w", err)
	}
	return fsys, nil
}

func createMigrateInstance(dbURL string) (*migrate.Migrate, error) {
	fsys, err := embeddedMigrations()
	if err != nil {
		return nil, err
	}
	d, err := iofs.New(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create iofs driver: %w", err)
	}
	return migrate.NewWithSourceInstance("iofs", d, dbURL)
}

func listMigrationFiles() ([]string, error) {
	fsys, err := embeddedMigrations()
	if err != nil {
		return nil, err
	}
	return upMigrations(fsys)
}
