// Package migrations embeds the comment schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
