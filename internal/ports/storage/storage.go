package storage

import (
	"context"
	"io"
	"time"
)

// MediaStore is the object storage port: upload by path and signed URL issuance.
type MediaStore interface {
	Upload(ctx context.Context, bucket, path string, body io.Reader, contentType string) error
	SignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error)
}

// URLCache keeps recently signed URLs so repeated page loads do not re-sign.
type URLCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, url string, ttl time.Duration) error
}
