package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/SscSPs/cdt_management_app/internal/apperrors"
	portsrepo "github.com/SscSPs/cdt_management_app/internal/core/ports/repositories"
)

// scanBatchSize is the COUNT hint passed to SCAN during pattern invalidation.
const scanBatchSize = 100

// RedisCache is the shared-backend Cache implementation for multi-instance
// deployments. Values are stored as JSON.
type RedisCache struct {
	client *redis.Client
	hits   int64
	misses int64
}

// NewRedisCache connects to redis using the given URL and verifies the
// connection with a ping before returning.
func NewRedisCache(ctx context.Context, redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Ensure RedisCache implements the Cache port.
var _ portsrepo.Cache = (*RedisCache)(nil)

// Get unmarshals the cached value for key into dest.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		atomic.AddInt64(&c.misses, 1)
		return false, nil
	}
	if err != nil {
		atomic.AddInt64(&c.misses, 1)
		return false, fmt.Errorf("%w: redis get %s: %v", apperrors.ErrCacheUnavailable, key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		atomic.AddInt64(&c.misses, 1)
		return false, fmt.Errorf("failed to unmarshal cached value for key %s: %w", key, err)
	}
	atomic.AddInt64(&c.hits, 1)
	return true, nil
}

// Set stores value under key with the given TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set %s: %v", apperrors.ErrCacheUnavailable, key, err)
	}
	return nil
}

// Delete removes a single key. Deleting an absent key is not an error.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: redis del %s: %v", apperrors.ErrCacheUnavailable, key, err)
	}
	return nil
}

// InvalidatePattern removes every key starting with prefix using SCAN+DEL and
// returns how many were removed.
func (c *RedisCache) InvalidatePattern(ctx context.Context, prefix string) (int, error) {
	prefix = strings.TrimSuffix(prefix, "*")
	match := prefix + "*"

	count := 0
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, match, scanBatchSize).Result()
		if err != nil {
			return count, fmt.Errorf("%w: redis scan %s: %v", apperrors.ErrCacheUnavailable, match, err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return count, fmt.Errorf("%w: redis del batch: %v", apperrors.ErrCacheUnavailable, err)
			}
			count += len(keys)
		}
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}

// Clear removes all keys in the configured database.
func (c *RedisCache) Clear(ctx context.Context) error {
	if err := c.client.FlushDB(ctx).Err(); err != nil {
		return fmt.Errorf("%w: redis flushdb: %v", apperrors.ErrCacheUnavailable, err)
	}
	return nil
}

// Metrics returns the hit/miss counters accumulated since the last reset.
// Counters are local to this process, not shared across instances.
func (c *RedisCache) Metrics() portsrepo.CacheMetrics {
	return portsrepo.CacheMetrics{
		Hits:   atomic.LoadInt64(&c.hits),
		Misses: atomic.LoadInt64(&c.misses),
	}
}

// ResetMetrics zeroes the hit/miss counters.
func (c *RedisCache) ResetMetrics() {
	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
}

// Close releases the underlying redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
