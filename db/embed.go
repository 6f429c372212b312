// Package db carries the SQL migrations for the governance store and the
// audit log.
package db

import "embed"

// Migrations holds migrations/*.sql for builds that embed them.
//
//go:embed migrations/*.sql
var Migrations embed.FS
