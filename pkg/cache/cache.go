// Package cache stores rendered artifacts keyed by the frame they were
// rendered from.
//
// The CLI uses [FileCache] under the user cache directory; the HTTP server
// and tests use [NullCache] or a [FileCache] in a temp dir. Keys come from a
// [Keyer] so server sessions can be namespaced with [NewScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}
