package repositories

import (
	"context"
	"time"
)

// CacheMetrics exposes hit/miss counters for observability.
type CacheMetrics struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Cache is the injected read-through cache capability. It is a performance
// optimization only: a cleared cache must produce identical results from the
// store, just slower, so implementations may fail without affecting
// correctness (callers log and continue).
type Cache interface {
	// Get unmarshals the cached value for key into dest and reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a single key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// InvalidatePattern removes every key starting with prefix and returns how
	// many were removed.
	InvalidatePattern(ctx context.Context, prefix string) (int, error)

	// Clear removes all keys.
	Clear(ctx context.Context) error

	// Metrics returns the hit/miss counters accumulated since the last reset.
	Metrics() CacheMetrics

	// ResetMetrics zeroes the hit/miss counters.
	ResetMetrics()
}
