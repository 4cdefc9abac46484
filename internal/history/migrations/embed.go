// Package migrations embeds the goose schema migrations for the draft
// history database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
