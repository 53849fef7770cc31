// Package cache stores rendered SVG documents keyed by a hash of the request
// that produced them.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces render cache entries in Redis.
const KeyPrefix = "gantt2svg:svg:"

// Cache is a string store for rendered documents. Implementations must be
// safe for concurrent use.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Key hashes the given parts into a cache key. Parts are length-prefixed so
// that different splits of the same bytes never collide.
func Key(parts ...[]byte) string {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = fmt.Fprintf(d, "%d:", len(p))
		_, _ = d.Write(p)
	}
	return fmt.Sprintf("%016x", d.Sum64())
}

// RedisCache keeps documents in Redis with a fixed TTL.
type RedisCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisCache creates a cache on client. A non-positive ttl stores entries
// without expiry.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if client == nil {
		panic("cache.NewRedisCache: client is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &RedisCache{redis: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := c.redis.Get(ctx, KeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key, value string) error {
	if err := c.redis.Set(ctx, KeyPrefix+key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
