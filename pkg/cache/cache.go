// Package cache provides the key-value stores that back seesaw persistence.
//
// A [Cache] is an opaque byte store keyed by string. The persistence gateway
// in package store encodes simulation state into a single value and keeps it
// under a key produced by a [Keyer].
//
// # Backends
//
//   - [FileCache]: one JSON file per key under a directory (CLI default)
//   - [MemoryCache]: process-local map, for tests and ephemeral servers
//   - [RedisCache]: shared Redis instance via go-redis
//   - [NullCache]: stores nothing; persistence disabled
//
// Values may carry a TTL. A zero TTL means the value never expires.
package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for cache operations.
var (
	// ErrCorrupt is returned when a stored value cannot be decoded.
	ErrCorrupt = errors.New("corrupt entry")

	// ErrClosed is returned by operations on a closed cache.
	ErrClosed = errors.New("cache closed")
)

// Cache is a byte-oriented key-value store.
type Cache interface {
	// Get returns the value for key. A missing or expired key is reported
	// as (nil, false, nil), not as an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero keeps the value forever.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
