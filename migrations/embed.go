// Package migrations embeds the goose SQL migrations applied at startup.
package migrations

import "embed"

//go:embed sql/*.sql
var FS embed.FS

// Dir is the subdirectory holding the .sql files inside FS.
const Dir = "sql"
