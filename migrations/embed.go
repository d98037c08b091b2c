// Package migrations embeds the SQL schema migrations.
package migrations

import "embed"

// FS holds every NNNN_name.up.sql / NNNN_name.down.sql file.
//
//go:embed *.sql
var FS embed.FS
