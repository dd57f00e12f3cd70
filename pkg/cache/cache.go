// Package cache provides pure result memoization for the resolution pipeline.
//
// Every cached value is a function of its key: keys embed the dataset
// version (a content hash), so entries never need invalidation. Removing the
// cache changes latency, never results.
//
// Backends:
//   - [FileCache]: JSON entry files under ~/.cache/prgraph (CLI default)
//   - [RedisCache]: shared cache for several server instances
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// DefaultTTL bounds how long cached results are kept.
const DefaultTTL = 24 * time.Hour

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
