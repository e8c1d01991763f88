package source

import (
	"persondir/internal/infra/source/fs"
)

// NewFilesystem constructs a filesystem-backed source.Store rooted at the
// provided path. Returns source.Store to encourage call sites to depend on
// the interface instead of concrete implementations.
func NewFilesystem(root string) (Store, error) {
	return fs.New(root)
}
