// Package db carries the SQL migrations compiled into the binary so a
// deployed API needs no migration files on disk.
package db

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrations returns the migration files rooted at the directory that
// contains them.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}
