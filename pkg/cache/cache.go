// Package cache provides pluggable cache backends for registry lookups.
//
// The update checker consults PyPI once per package and caches the response
// for a freshness window, so repeated scans don't hammer the network. The
// Cache interface keeps the core free of any particular storage choice:
//   - FileCache: on-disk cache for CLI usage (default)
//   - RedisCache: shared cache for CI fleets
//   - NullCache: no-op cache for tests or --refresh
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with optional expiry.
//
// Get returns (data, true, nil) on a hit, (nil, false, nil) on a miss.
// Backends treat corrupt or expired entries as misses rather than errors.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
