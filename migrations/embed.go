// Package migrations embeds the SQL schema and reference data of the booking ledger.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
