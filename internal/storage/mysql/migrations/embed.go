// Package migrations embeds the schema so the API and tests apply the same
// files through goose.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
