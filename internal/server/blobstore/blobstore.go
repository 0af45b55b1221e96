// Package blobstore adapts the object store for the reconciliation engine.
// The adapter speaks fully-qualified object keys only; it knows nothing
// about the Folder/File metadata model. No call is retried here — retry
// policy, such as it is, belongs to the caller.
package blobstore

import (
	"context"
	"time"
)

// ObjectInfo is one entry of a prefix listing.
type ObjectInfo struct {
	Key  string
	Size int64
}

// Store is the set of object-store intents the engine issues. Every
// implementation error wraps common.ErrStorageUnavailable.
type Store interface {
	// Put writes a zero-byte object at key (folder and namespace
	// placeholders). contentType may be empty.
	Put(ctx context.Context, key, contentType string) error

	// PresignPut returns a URL authorizing one upload to key, valid for ttl.
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)

	// PresignGet returns a URL authorizing reads of key, valid for ttl.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)

	// Copy duplicates the object at src to dst.
	Copy(ctx context.Context, src, dst string) error

	// Delete removes the object at key.
	Delete(ctx context.Context, key string) error

	// ListPrefix returns every object under prefix, draining pagination
	// before returning.
	ListPrefix(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
