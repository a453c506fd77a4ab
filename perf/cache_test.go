package perf_test

import (
	"testing"
	"time"

	"groovebot/perf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheLRUEviction(t *testing.T) {
	t.Parallel()
	cache := perf.NewCache(3, time.Minute)

	cache.Set("a", 1, 0)
	time.Sleep(5 * time.Millisecond)
	cache.Set("b", 2, 0)
	time.Sleep(5 * time.Millisecond)
	cache.Set("c", 3, 0)
	time.Sleep(5 * time.Millisecond)

	// Touch "a" so "b" becomes least recently accessed.
	_, ok := cache.Get("a")
	require.True(t, ok)
	time.Sleep(5 * time.Millisecond)

	// Inserting a 4th key evicts exactly "b".
	cache.Set("d", 4, 0)
	assert.False(t, cache.Has("b"))
	assert.True(t, cache.Has("a"))
	assert.True(t, cache.Has("c"))
	assert.True(t, cache.Has("d"))
	assert.Equal(t, 3, cache.Len())
}

func TestCacheOverwriteDoesNotEvict(t *testing.T) {
	t.Parallel()
	cache := perf.NewCache(2, time.Minute)

	cache.Set("a", 1, 0)
	cache.Set("b", 2, 0)
	cache.Set("a", 10, 0) // existing key, no eviction

	assert.Equal(t, 2, cache.Len())
	value, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, value)
}

func TestCacheTTLExpiry(t *testing.T) {
	t.Parallel()
	cache := perf.NewCache(10, time.Minute)

	cache.Set("k", "v", 50*time.Millisecond)
	_, ok := cache.Get("k")
	require.True(t, ok)

	time.Sleep(80 * time.Millisecond)

	// Expired entry reads as a miss and is removed.
	_, ok = cache.Get("k")
	assert.False(t, ok)
	assert.False(t, cache.Has("k"))
	assert.Equal(t, 0, cache.Len())
}

func TestCacheCleanup(t *testing.T) {
	t.Parallel()
	cache := perf.NewCache(10, time.Minute)

	cache.Set("short", 1, 30*time.Millisecond)
	cache.Set("long", 2, time.Minute)
	time.Sleep(60 * time.Millisecond)

	removed := cache.Cleanup()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, cache.Len())
	assert.True(t, cache.Has("long"))
}

func TestCacheStats(t *testing.T) {
	t.Parallel()
	cache := perf.NewCache(2, time.Minute)

	cache.Set("a", 1, 0)
	cache.Get("a")
	cache.Get("missing")
	cache.Set("b", 2, 0)
	cache.Set("c", 3, 0) // evicts

	stats := cache.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, uint64(1), stats.Evictions)
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, 2, stats.MaxSize)
}
