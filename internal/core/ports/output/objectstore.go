package ports

import (
	"context"
	"time"
)

// ObjectStore abstracts the S3-compatible store holding template artifacts.
// The service never transfers file contents itself; clients upload directly
// using presigned URLs.
type ObjectStore interface {
	EnsureBucket(ctx context.Context, bucket string) error
	PresignUpload(ctx context.Context, bucket, key string, expiry time.Duration, contentType string) (string, error)
	ListKeys(ctx context.Context, bucket, prefix string) ([]string, error)
	DeleteKey(ctx context.Context, bucket, key string) error
	DeleteKeysByPrefix(ctx context.Context, bucket, prefix string) error
}
