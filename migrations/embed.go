// Package migrations holds the PostgreSQL schema migrations.
package migrations

import "embed"

// FS contains every *.sql migration of this directory
//
//go:embed *.sql
var FS embed.FS
