// Package postgres implements a source store over a shared Postgres table,
// mirroring the sqlite driver's semantics.
package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"persondir/pkg/source/core"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/persondir?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store implements core.Store reading JSON payloads from a `sources` table
// keyed by logical name.
type Store struct {
	db *sql.DB
}

// NewStore opens a Postgres-backed source store using the provided DSN
// (falls back to defaultDSN) and ensures the sources table exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS sources (
		name TEXT PRIMARY KEY,
		payload BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sources table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Driver() core.Driver { return core.DriverPostgres }

// Seed installs (or replaces) the payload for a logical name.
func (s *Store) Seed(ctx context.Context, name string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sources(name,payload,updated_at) VALUES($1,$2,$3)
		 ON CONFLICT(name) DO UPDATE SET payload=EXCLUDED.payload, updated_at=EXCLUDED.updated_at`,
		name, payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("seed %s: %w", name, err)
	}
	return nil
}

func (s *Store) Open(ctx context.Context, name string) (core.Info, io.ReadCloser, error) {
	var payload []byte
	var updatedAt time.Time
	err := s.db.QueryRowContext(ctx, `SELECT payload, updated_at FROM sources WHERE name = $1`, name).Scan(&payload, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Info{}, nil, fmt.Errorf("source %s: %w", name, core.ErrNotFound)
	}
	if err != nil {
		return core.Info{}, nil, fmt.Errorf("select source %s: %w", name, err)
	}
	info := core.Info{Name: name, Size: int64(len(payload)), ContentType: "application/json", LastModified: updatedAt.UTC()}
	return info, io.NopCloser(bytes.NewReader(payload)), nil
}

func (s *Store) Head(ctx context.Context, name string) (core.Info, error) {
	var size int64
	var updatedAt time.Time
	err := s.db.QueryRowContext(ctx, `SELECT length(payload), updated_at FROM sources WHERE name = $1`, name).Scan(&size, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Info{}, fmt.Errorf("source %s: %w", name, core.ErrNotFound)
	}
	if err != nil {
		return core.Info{}, fmt.Errorf("head source %s: %w", name, err)
	}
	return core.Info{Name: name, Size: size, ContentType: "application/json", LastModified: updatedAt.UTC()}, nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]core.Info, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, length(payload), updated_at FROM sources WHERE name LIKE $1 || '%' ORDER BY name ASC`, prefix)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var infos []core.Info
	for rows.Next() {
		var name string
		var size int64
		var updatedAt time.Time
		if err := rows.Scan(&name, &size, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		infos = append(infos, core.Info{Name: name, Size: size, ContentType: "application/json", LastModified: updatedAt.UTC()})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sources: %w", err)
	}
	return infos, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
