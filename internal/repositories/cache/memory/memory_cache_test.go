package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/cdt_management_app/internal/repositories/cache/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := memory.NewMemoryCache()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, c.Set(ctx, "cdt:abc", payload{Name: "x", Count: 3}, time.Minute))

	var got payload
	hit, err := c.Get(ctx, "cdt:abc", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, payload{Name: "x", Count: 3}, got)
}

func TestMemoryCache_MissOnAbsentKey(t *testing.T) {
	ctx := context.Background()
	c := memory.NewMemoryCache()

	var got string
	hit, err := c.Get(ctx, "nope", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := memory.NewMemoryCache()

	require.NoError(t, c.Set(ctx, "short", "value", 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)

	var got string
	hit, err := c.Get(ctx, "short", &got)
	require.NoError(t, err)
	assert.False(t, hit, "expired entry must read as a miss")
}

func TestMemoryCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := memory.NewMemoryCache()

	require.NoError(t, c.Set(ctx, "k", 1, time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx, "k")) // absent key is not an error

	var got int
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryCache_InvalidatePattern(t *testing.T) {
	ctx := context.Background()
	c := memory.NewMemoryCache()

	require.NoError(t, c.Set(ctx, "cdts:user:u1:PENDING:20:0", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "cdts:user:u1:ALL:20:0", 2, time.Minute))
	require.NoError(t, c.Set(ctx, "cdts:user:u2:ALL:20:0", 3, time.Minute))
	require.NoError(t, c.Set(ctx, "cdt:abc", 4, time.Minute))

	count, err := c.InvalidatePattern(ctx, "cdts:user:u1:*")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var got int
	hit, _ := c.Get(ctx, "cdts:user:u2:ALL:20:0", &got)
	assert.True(t, hit, "other user's list keys must survive")
	hit, _ = c.Get(ctx, "cdt:abc", &got)
	assert.True(t, hit, "entity key must survive a list invalidation")
}

func TestMemoryCache_Clear(t *testing.T) {
	ctx := context.Background()
	c := memory.NewMemoryCache()

	require.NoError(t, c.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "b", 2, time.Minute))
	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_Metrics(t *testing.T) {
	ctx := context.Background()
	c := memory.NewMemoryCache()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	var got string
	_, _ = c.Get(ctx, "k", &got)    // hit
	_, _ = c.Get(ctx, "miss", &got) // miss
	_, _ = c.Get(ctx, "miss", &got) // miss

	m := c.Metrics()
	assert.Equal(t, int64(1), m.Hits)
	assert.Equal(t, int64(2), m.Misses)

	c.ResetMetrics()
	m = c.Metrics()
	assert.Zero(t, m.Hits)
	assert.Zero(t, m.Misses)
}

func TestMemoryCache_UnmarshalFailureCountsAsMiss(t *testing.T) {
	ctx := context.Background()
	c := memory.NewMemoryCache()

	require.NoError(t, c.Set(ctx, "k", "not-a-number", time.Minute))

	var got int
	hit, err := c.Get(ctx, "k", &got)
	require.Error(t, err)
	assert.False(t, hit)

	m := c.Metrics()
	assert.Zero(t, m.Hits, "a value the caller could not use must not count as a hit")
	assert.Equal(t, int64(1), m.Misses)
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := memory.NewMemoryCache()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				_ = c.Set(ctx, "shared", n, time.Minute)
				var got int
				_, _ = c.Get(ctx, "shared", &got)
				_, _ = c.InvalidatePattern(ctx, "sha")
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
