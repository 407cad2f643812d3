package migrations

import "embed"

// FS contiene los archivos SQL de goose.
//
//go:embed *.sql
var FS embed.FS
