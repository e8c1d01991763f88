package source

import (
	"context"

	"persondir/internal/infra/source/s3"
)

// S3Config holds explicit S3 construction parameters.
type S3Config = s3.Config

// NewS3 constructs an S3-backed source.Store from explicit configuration.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) {
	return s3.New(ctx, cfg)
}

// OpenS3FromEnv constructs an S3-backed source.Store from process environment.
func OpenS3FromEnv(ctx context.Context) (Store, error) {
	return s3.OpenFromEnv(ctx)
}
