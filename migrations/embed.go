// Package migrations embeds the goose SQL migrations for each SQL backend.
package migrations

import "embed"

// FS holds one directory per goose dialect: postgres and sqlite.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)
