package migrations

import "embed"

// FS embeds the SQL migrations so the server and kiosk tooling run standalone
//
//go:embed *.sql
var FS embed.FS
