package source

import (
	"persondir/internal/infra/source/memory"
)

// NewMemory constructs an empty in-memory source.Store.
func NewMemory() Store {
	return memory.New()
}

// NewMemorySeeded constructs an in-memory source.Store preloaded with the
// supplied name→payload objects.
func NewMemorySeeded(objects map[string][]byte) Store {
	store := memory.New()
	for name, payload := range objects {
		store.Seed(name, payload)
	}
	return store
}
