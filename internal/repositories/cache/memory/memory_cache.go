package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	portsrepo "github.com/SscSPs/cdt_management_app/internal/core/ports/repositories"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is the default in-process Cache implementation. Values are
// stored as JSON so behaviour matches the redis backend, and expiry is lazy:
// an expired key counts as a miss on its next read.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	hits    int64
	misses  int64
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
	}
}

// Ensure MemoryCache implements the Cache port.
var _ portsrepo.Cache = (*MemoryCache)(nil)

// Get unmarshals the cached value for key into dest. A stored value that
// cannot be unmarshalled into dest counts as a miss, so the metrics mirror
// what the caller actually received.
func (c *MemoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		ok = false
	}
	if !ok {
		c.misses++
		c.mu.Unlock()
		return false, nil
	}
	c.mu.Unlock()

	if err := json.Unmarshal(e.data, dest); err != nil {
		c.mu.Lock()
		c.misses++
		c.mu.Unlock()
		return false, fmt.Errorf("failed to unmarshal cached value for key %s: %w", key, err)
	}

	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
	return true, nil
}

// Set stores value under key with the given TTL.
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a single key. Deleting an absent key is not an error.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// InvalidatePattern removes every key starting with prefix and returns how
// many were removed. A trailing "*" on the prefix is accepted and ignored.
func (c *MemoryCache) InvalidatePattern(ctx context.Context, prefix string) (int, error) {
	prefix = strings.TrimSuffix(prefix, "*")

	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			count++
		}
	}
	return count, nil
}

// Clear removes all keys.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	return nil
}

// Metrics returns the hit/miss counters accumulated since the last reset.
func (c *MemoryCache) Metrics() portsrepo.CacheMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return portsrepo.CacheMetrics{Hits: c.hits, Misses: c.misses}
}

// ResetMetrics zeroes the hit/miss counters.
func (c *MemoryCache) ResetMetrics() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits = 0
	c.misses = 0
}

// Len reports the number of stored entries, expired or not. Intended for
// tests and debug endpoints.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
