package cache

import (
	"context"
	"time"
)

// NullCache discards every write and misses every read. It backs the
// --no-cache paths and keeps callers free of nil checks when caching is
// disabled.
type NullCache struct{}

// NewNullCache creates a cache that stores nothing.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always misses.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the entry.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete is a no-op; there is never anything to delete.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close is a no-op.
func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
