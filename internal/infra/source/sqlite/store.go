// Package sqlite implements a source store over a single SQLite table.
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"persondir/pkg/source/core"
)

// Store implements core.Store reading JSON payloads from a `sources` table
// keyed by logical name.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the SQLite database at path and ensures the
// sources table exists.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "persondir.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS sources (
		name TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sources table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Driver() core.Driver { return core.DriverSQLite }

// Seed installs (or replaces) the payload for a logical name.
func (s *Store) Seed(ctx context.Context, name string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sources(name,payload,updated_at) VALUES(?,?,?)
		 ON CONFLICT(name) DO UPDATE SET payload=excluded.payload, updated_at=excluded.updated_at`,
		name, payload, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("seed %s: %w", name, err)
	}
	return nil
}

func (s *Store) Open(ctx context.Context, name string) (core.Info, io.ReadCloser, error) {
	var payload []byte
	var updatedAt string
	err := s.db.QueryRowContext(ctx, `SELECT payload, updated_at FROM sources WHERE name = ?`, name).Scan(&payload, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Info{}, nil, fmt.Errorf("source %s: %w", name, core.ErrNotFound)
	}
	if err != nil {
		return core.Info{}, nil, fmt.Errorf("select source %s: %w", name, err)
	}
	return infoFor(name, payload, updatedAt), io.NopCloser(bytes.NewReader(payload)), nil
}

func (s *Store) Head(ctx context.Context, name string) (core.Info, error) {
	var size int64
	var updatedAt string
	err := s.db.QueryRowContext(ctx, `SELECT length(payload), updated_at FROM sources WHERE name = ?`, name).Scan(&size, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Info{}, fmt.Errorf("source %s: %w", name, core.ErrNotFound)
	}
	if err != nil {
		return core.Info{}, fmt.Errorf("head source %s: %w", name, err)
	}
	info := core.Info{Name: name, Size: size, ContentType: "application/json"}
	info.LastModified = parseUpdatedAt(updatedAt)
	return info, nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]core.Info, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, length(payload), updated_at FROM sources WHERE name LIKE ? || '%' ORDER BY name ASC`, prefix)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var infos []core.Info
	for rows.Next() {
		var name, updatedAt string
		var size int64
		if err := rows.Scan(&name, &size, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		infos = append(infos, core.Info{Name: name, Size: size, ContentType: "application/json", LastModified: parseUpdatedAt(updatedAt)})
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

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

func infoFor(name string, payload []byte, updatedAt string) core.Info {
	return core.Info{Name: name, Size: int64(len(payload)), ContentType: "application/json", LastModified: parseUpdatedAt(updatedAt)}
}

func parseUpdatedAt(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}
