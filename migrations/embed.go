// Package migrations holds the schema as ordered .sql files compiled into the binary.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
