// Package database opens the backing stores used by the feedback repository.
package database

import (
	"strings"
)

// SQL engines selected from the DATABASE_URL scheme.
const (
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// Engine reports which SQL engine a DSN points at. "sqlite:" and "file:"
// DSNs are SQLite; everything else is treated as Postgres.
func Engine(dsn string) string {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "sqlite:") || strings.HasPrefix(lower, "file:") {
		return EngineSQLite
	}
	return EnginePostgres
}

// SQLitePath strips the sqlite: scheme so the rest can be handed to the driver.
func SQLitePath(dsn string) string {
	if len(dsn) >= len("sqlite:") && strings.EqualFold(dsn[:len("sqlite:")], "sqlite:") {
		path := dsn[len("sqlite:"):]
		return strings.TrimPrefix(path, "//")
	}
	return dsn
}
