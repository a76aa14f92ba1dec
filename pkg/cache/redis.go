package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in a Redis instance. Intended for CI fleets
// where many workers share one update-check cache; for single-machine CLI
// usage prefer FileCache.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to Redis at addr (host:port) and verifies the
// connection with a ping. All keys are namespaced under the given prefix.
func NewRedisCache(ctx context.Context, addr, prefix string) (Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisCache{client: client, prefix: prefix}, nil
}

// Get retrieves a value from Redis. A missing key is a cache miss, not an error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value with the given TTL. A TTL of 0 means no expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

// Close releases the client connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)
