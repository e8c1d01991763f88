package source

import (
	"context"
	"fmt"
	"os"
)

// Open selects a source.Store implementation using environment variables.
//
//	PERSONDIR_SOURCE_DRIVER: fs|s3|memory|sqlite|postgres (default fs)
//	PERSONDIR_SOURCE_FS_ROOT: directory root when driver=fs (default ./sourcedata)
//	PERSONDIR_SOURCE_SQLITE_PATH: database path when driver=sqlite (default persondir.db)
//	PERSONDIR_SOURCE_POSTGRES_DSN: connection string when driver=postgres
//	(S3 specific variables documented in s3.go)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("PERSONDIR_SOURCE_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		root := os.Getenv("PERSONDIR_SOURCE_FS_ROOT")
		return NewFilesystem(root)
	case DriverS3:
		return OpenS3FromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		return NewSQLite(os.Getenv("PERSONDIR_SOURCE_SQLITE_PATH"))
	case DriverPostgres:
		return NewPostgres(ctx, os.Getenv("PERSONDIR_SOURCE_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown source driver %s", driver)
	}
}
