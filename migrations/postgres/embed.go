// Package migrations embeds the PostgreSQL schema migrations (goose format).
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Dir is the directory within FS where migrations live.
const Dir = "."
