// Package migrations embeds the SQL schema files for each database dialect.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// Dialect returns the migration files for one dialect directory.
func Dialect(name string) (fs.FS, error) {
	return fs.Sub(FS, name)
}
