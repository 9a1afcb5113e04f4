// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package cache

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/runboard/internal/metrics"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCache(t *testing.T, name string, ttl time.Duration) (*Cache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, time.March, 11, 12, 0, 0, 0, time.UTC)}
	c := New(name, ttl)
	c.now = clock.Now
	t.Cleanup(c.Close)
	return c, clock
}

func TestCacheBasicOperations(t *testing.T) {
	c, _ := newTestCache(t, "test_basic", time.Minute)

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	if _, exists = c.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	c, clock := newTestCache(t, "test_expiration", time.Minute)

	c.Set("key1", "value1")
	clock.Advance(59 * time.Second)
	if _, exists := c.Get("key1"); !exists {
		t.Error("Expected key1 to exist before the TTL elapses")
	}

	clock.Advance(2 * time.Second)
	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be expired")
	}

	stats := c.GetStats()
	if stats.Evictions != 1 {
		t.Errorf("Expected 1 eviction, got %d", stats.Evictions)
	}
	if stats.TotalKeys != 0 {
		t.Errorf("Expected 0 keys, got %d", stats.TotalKeys)
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	c, clock := newTestCache(t, "test_custom_ttl", time.Minute)

	c.SetWithTTL("short", "v", time.Second)
	c.Set("long", "v")

	clock.Advance(2 * time.Second)
	if _, ok := c.Get("short"); ok {
		t.Error("Expected short to be expired")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("Expected long to exist")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c, _ := newTestCache(t, "test_clear", time.Minute)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Set("key3", "value3")

	c.Delete("key1")
	c.Delete("missing")
	if _, ok := c.Get("key1"); ok {
		t.Error("Expected key1 to be deleted")
	}

	c.Clear()
	for _, key := range []string{"key2", "key3"} {
		if _, ok := c.Get(key); ok {
			t.Errorf("Expected %s to be cleared", key)
		}
	}

	stats := c.GetStats()
	if stats.Evictions != 3 {
		t.Errorf("Expected 3 evictions, got %d", stats.Evictions)
	}
	if stats.TotalKeys != 0 {
		t.Errorf("Expected 0 keys, got %d", stats.TotalKeys)
	}
}

func TestCacheStatsAndMetrics(t *testing.T) {
	c, _ := newTestCache(t, "test_stats", time.Minute)

	hitsBefore := testutil.ToFloat64(metrics.CacheHits.WithLabelValues("test_stats"))
	missesBefore := testutil.ToFloat64(metrics.CacheMisses.WithLabelValues("test_stats"))

	if rate := c.HitRate(); rate != 0 {
		t.Errorf("Expected 0 hit rate without operations, got %v", rate)
	}

	c.Set("key", "value")
	c.Get("key")
	c.Get("key")
	c.Get("key")
	c.Get("missing")

	stats := c.GetStats()
	if stats.Hits != 3 || stats.Misses != 1 {
		t.Errorf("Expected 3 hits and 1 miss, got %d and %d", stats.Hits, stats.Misses)
	}
	if rate := c.HitRate(); rate != 75 {
		t.Errorf("Expected 75%% hit rate, got %v", rate)
	}

	if got := testutil.ToFloat64(metrics.CacheHits.WithLabelValues("test_stats")) - hitsBefore; got != 3 {
		t.Errorf("Expected 3 hit metric increments, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.CacheMisses.WithLabelValues("test_stats")) - missesBefore; got != 1 {
		t.Errorf("Expected 1 miss metric increment, got %v", got)
	}
}

func TestCacheCleanup(t *testing.T) {
	c, clock := newTestCache(t, "test_cleanup", time.Minute)

	c.Set("old", 1)
	clock.Advance(30 * time.Second)
	c.Set("new", 2)
	clock.Advance(45 * time.Second)

	c.cleanup()

	stats := c.GetStats()
	if stats.TotalKeys != 1 {
		t.Errorf("Expected 1 key after cleanup, got %d", stats.TotalKeys)
	}
	if !stats.LastCleanup.Equal(clock.Now()) {
		t.Errorf("Expected last cleanup %v, got %v", clock.Now(), stats.LastCleanup)
	}
	if _, ok := c.Get("new"); !ok {
		t.Error("Expected new to survive cleanup")
	}
}

func TestCacheConcurrency(t *testing.T) {
	c, _ := newTestCache(t, "test_concurrency", time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d-%d", id, j)
				c.Set(key, j)
				c.Get(key)
				if j%10 == 0 {
					c.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()

	if keys := c.GetStats().TotalKeys; keys != 900 {
		t.Errorf("Expected 900 keys, got %d", keys)
	}
}

func TestCacheClose(t *testing.T) {
	c := New("test_close", time.Minute)
	c.Close()
	c.Close()
}

func TestGenerateKey(t *testing.T) {
	a := GenerateKey("standings", map[string]string{"week": "2026-03-09"})
	b := GenerateKey("standings", map[string]string{"week": "2026-03-09"})
	other := GenerateKey("standings", map[string]string{"week": "2026-03-02"})

	if a != b {
		t.Errorf("Expected identical keys for identical params, got %s and %s", a, b)
	}
	if a == other {
		t.Error("Expected different keys for different params")
	}
	if !strings.HasPrefix(a, "standings:") {
		t.Errorf("Expected method prefix, got %s", a)
	}

	// Channels cannot be marshaled; the key falls back to fmt.
	fallback := GenerateKey("weeks", make(chan int))
	if !strings.HasPrefix(fallback, "weeks:") {
		t.Errorf("Expected fallback key with method prefix, got %s", fallback)
	}
}
