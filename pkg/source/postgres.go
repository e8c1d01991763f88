package source

import (
	"context"

	"persondir/internal/infra/source/postgres"
)

// NewPostgres constructs a Postgres-backed source.Store using the provided
// DSN, creating the sources table if needed.
func NewPostgres(ctx context.Context, dsn string) (Store, error) {
	return postgres.NewStore(ctx, dsn)
}
