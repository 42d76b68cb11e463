package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/real8co/real8-price-updater/config"
	"github.com/real8co/real8-price-updater/pricefeed"
)

func TestFresh(t *testing.T) {
	writtenAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	snap := pricefeed.Snapshot{PriceXLM: 2.5, PriceUSD: 0.24, UpdatedAt: writtenAt}

	tests := []struct {
		name string
		age  time.Duration
		want bool
	}{
		{"just written", 0, true},
		{"one second before expiry", 3599 * time.Second, true},
		{"one second after expiry", 3601 * time.Second, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &RedisCache{
				ttl: time.Hour,
				now: func() time.Time { return writtenAt.Add(tt.age) },
			}

			assert.Equal(t, tt.want, c.fresh(snap))
		})
	}
}

// Exercises Store, Load, and Clear against a live server.
func TestRedisCacheIntegration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping redis integration test")
	}

	cache, err := New(config.Config{RedisAddr: addr, CacheTTL: time.Hour})
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	defer cache.Close()

	ctx := context.Background()

	assert.NoError(t, cache.Clear(ctx))

	_, ok := cache.Load(ctx)
	assert.False(t, ok, "expected no snapshot after clear")

	assert.NoError(t, cache.Store(ctx, 2.5, 0.24))

	snap, ok := cache.Load(ctx)
	assert.True(t, ok)
	assert.Equal(t, 2.5, snap.PriceXLM)
	assert.Equal(t, 0.24, snap.PriceUSD)
	assert.WithinDuration(t, time.Now().UTC(), snap.UpdatedAt, 5*time.Second)

	// The entry carries the configured TTL in Redis itself
	ttl, err := cache.client.TTL(ctx, snapshotKey).Result()
	assert.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	assert.NoError(t, cache.Clear(ctx))

	_, ok = cache.Load(ctx)
	assert.False(t, ok)
}

// A stale entry left behind in Redis is treated as absent.
func TestLoadStaleEntry(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping redis integration test")
	}

	cache, err := New(config.Config{RedisAddr: addr, CacheTTL: time.Hour})
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	defer cache.Close()

	ctx := context.Background()

	assert.NoError(t, cache.Store(ctx, 2.5, 0.24))

	// Age the reader's clock past the TTL without touching the entry
	cache.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, ok := cache.Load(ctx)
	assert.False(t, ok)

	assert.NoError(t, cache.Clear(ctx))
}
