package records

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"persondir/pkg/source/core"
)

var errNotArray = errors.New("expected a JSON array of record objects")

// Read decodes the named data source into an order-preserving record slice.
// Locate/open failures surface as SourceUnavailableError; content that is not
// a well-formed JSON array of record objects surfaces as MalformedDataError.
// The read itself is the only side effect.
func Read[T any](ctx context.Context, store core.Store, name string) ([]T, error) {
	_, rc, err := store.Open(ctx, name)
	if err != nil {
		return nil, SourceUnavailableError{Source: name, Err: err}
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, SourceUnavailableError{Source: name, Err: err}
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, MalformedDataError{Source: name, Err: err}
	}
	if out == nil {
		// JSON null decodes into a nil slice without error; the contract
		// requires an array.
		return nil, MalformedDataError{Source: name, Err: errNotArray}
	}
	return out, nil
}

// Dataset is a keyed view over one data source's records. Key iteration
// order is the order of each key's first appearance in the source, which
// keeps downstream joins deterministic.
type Dataset[T any] struct {
	keys  []string
	byKey map[string]T
}

// Get returns the record stored under key.
func (d *Dataset[T]) Get(key string) (T, bool) {
	v, ok := d.byKey[key]
	return v, ok
}

// Len returns the number of distinct keys.
func (d *Dataset[T]) Len() int { return len(d.keys) }

// Keys returns the dataset's keys in first-appearance order. The returned
// slice is a copy.
func (d *Dataset[T]) Keys() []string {
	return append([]string(nil), d.keys...)
}

// LoadKeyed reads all records from the named source and indexes them by the
// extracted key. When the same key appears more than once, later records
// overwrite earlier ones in source order (last-writer-wins); the key keeps
// its first-appearance position. Reader errors propagate unchanged.
func LoadKeyed[T any](ctx context.Context, store core.Store, name string, key func(T) string) (*Dataset[T], error) {
	items, err := Read[T](ctx, store, name)
	if err != nil {
		return nil, err
	}
	ds := &Dataset[T]{byKey: make(map[string]T, len(items))}
	for _, item := range items {
		k := key(item)
		if _, seen := ds.byKey[k]; !seen {
			ds.keys = append(ds.keys, k)
		}
		ds.byKey[k] = item
	}
	return ds, nil
}
