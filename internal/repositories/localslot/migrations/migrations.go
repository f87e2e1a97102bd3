// Package migrations embeds the local slot schema
package migrations

import "embed"

// FS holds the goose migration files
//
//go:embed *.sql
var FS embed.FS
