package source

import (
	"persondir/internal/infra/source/sqlite"
)

// NewSQLite constructs a SQLite-backed source.Store at the provided database
// path, creating the database and sources table if needed.
func NewSQLite(path string) (Store, error) {
	return sqlite.NewStore(path)
}
