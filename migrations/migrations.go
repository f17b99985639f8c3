// Package migrations embeds the PostgreSQL schema migrations.
package migrations

import "embed"

// FS holds the golang-migrate files (NNNNNN_name.{up,down}.sql).
//
//go:embed *.sql
var FS embed.FS
