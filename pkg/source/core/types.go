// Package core defines the contracts for named data-source backends
// used by the record loading layer.
package core

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver identifies a concrete data-source backend implementation.
type Driver string

const (
	// DriverFilesystem represents the local filesystem implementation.
	DriverFilesystem Driver = "fs" // local filesystem (default, dev)
	// DriverS3 represents an S3 / MinIO compatible implementation.
	DriverS3 Driver = "s3" // S3 / MinIO compatible
	// DriverMemory represents an in-memory implementation typically used in tests.
	DriverMemory Driver = "memory" // in-memory (tests, embedding)
	// DriverSQLite represents a SQLite-backed implementation.
	DriverSQLite Driver = "sqlite" // single-file SQLite database
	// DriverPostgres represents a Postgres-backed implementation.
	DriverPostgres Driver = "postgres" // shared Postgres database
)

// Info describes a stored data source.
type Info struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size_bytes"`
	ContentType  string    `json:"content_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Store resolves logical data-source names to their content. Implementations
// are read-only from the consumer's perspective; seeding is a concern of the
// concrete backend, never of this interface.
type Store interface {
	// Open returns the source content and metadata. Returns an error wrapping
	// ErrNotFound when the name resolves to nothing.
	Open(ctx context.Context, name string) (Info, io.ReadCloser, error)
	// Head returns metadata only.
	Head(ctx context.Context, name string) (Info, error)
	// List returns sources whose name has the provided prefix. Stable ordering
	// by name ascending.
	List(ctx context.Context, prefix string) ([]Info, error)
	// Driver returns the configured backend driver string.
	Driver() Driver
}

// ErrNotFound is wrapped by drivers when a logical name resolves to nothing.
var ErrNotFound = errors.New("source: not found")
