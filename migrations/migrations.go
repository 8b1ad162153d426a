// Package migrations embeds the goose SQL migrations.
package migrations

import "embed"

//go:embed *.sql
var MigrationsFS embed.FS
