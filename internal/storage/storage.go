// Package storage persists uploaded media binaries. Handlers depend on the
// ObjectStore interface so tests can substitute an in-memory fake; the only
// production implementation is the S3-compatible store in s3.go.
package storage

import (
	"context"
	"io"
)

// ObjectStore is the contract the media handlers consume: durable puts
// returning a retrievable URL, short-lived presigned GET links for
// playback, and best-effort deletes when the owning row goes away.
type ObjectStore interface {
	// Put uploads body under key with the given content type and returns
	// a URL pointing at the stored object.
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	// PresignGet returns a time-limited GET URL for a stored object.
	PresignGet(ctx context.Context, key string) (string, error)
	// Delete removes a stored object.
	Delete(ctx context.Context, key string) error
}
