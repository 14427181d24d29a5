// Package cache provides byte-level caching for derived tables.
//
// Building and filtering vertex tables over large networks is the slow part
// of a session, and the inputs are immutable files, so the CLI caches derived
// results keyed by a hash of the input content and the parameters that shaped
// the table. Two implementations exist: FileCache for normal CLI use and
// NullCache to disable caching.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by helpers that treat a miss as an error.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores opaque byte values with optional expiration.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
