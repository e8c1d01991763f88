// Package source re-exports the data-source contracts and wires the concrete
// backend drivers behind stable constructors.
package source

import (
	"persondir/pkg/source/core"
)

type (
	// Driver identifies a source backend driver.
	Driver = core.Driver
	// Info describes stored data-source metadata.
	Info = core.Info
	// Store is the interface for data-source backends.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
	// DriverSQLite is the SQLite-backed driver.
	DriverSQLite = core.DriverSQLite
	// DriverPostgres is the Postgres-backed driver.
	DriverPostgres = core.DriverPostgres
)

// ErrNotFound indicates a logical name resolved to nothing.
var ErrNotFound = core.ErrNotFound
