// Package memory implements an in-memory source Store for tests and embedders.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"persondir/pkg/source/core"
)

type entry struct {
	info core.Info
	data []byte
}

// Store implements core.Store backed by process memory. Seeding happens via
// Seed; Open counts per-name reads so tests can assert how often a source was
// actually consumed.
type Store struct {
	mu    sync.RWMutex
	objs  map[string]entry
	opens map[string]int
}

// New returns an empty in-memory source store.
func New() *Store {
	return &Store{objs: make(map[string]entry), opens: make(map[string]int)}
}

// Driver returns the source driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Seed installs (or replaces) the payload for a logical name.
func (s *Store) Seed(name string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := make([]byte, len(payload))
	copy(data, payload)
	s.objs[name] = entry{
		info: core.Info{Name: name, Size: int64(len(data)), ContentType: "application/json", LastModified: time.Now().UTC()},
		data: data,
	}
}

// Opens reports how many times the named source has been opened.
func (s *Store) Opens(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opens[name]
}

// Open returns source metadata and a reader over a copy of its content.
func (s *Store) Open(_ context.Context, name string) (core.Info, io.ReadCloser, error) {
	s.mu.Lock()
	obj, ok := s.objs[name]
	if ok {
		s.opens[name]++
	}
	s.mu.Unlock()
	if !ok {
		return core.Info{}, nil, fmt.Errorf("source %s: %w", name, core.ErrNotFound)
	}
	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	return obj.info, io.NopCloser(bytes.NewReader(data)), nil
}

// Head returns source metadata only.
func (s *Store) Head(_ context.Context, name string) (core.Info, error) {
	s.mu.RLock()
	obj, ok := s.objs[name]
	s.mu.RUnlock()
	if !ok {
		return core.Info{}, fmt.Errorf("source %s: %w", name, core.ErrNotFound)
	}
	return obj.info, nil
}

// List returns all sources matching prefix.
func (s *Store) List(_ context.Context, prefix string) ([]core.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Info, 0, len(s.objs))
	for name, obj := range s.objs {
		if prefix == "" || strings.HasPrefix(name, prefix) {
			out = append(out, obj.info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
