// Package cache stores the latest computed price snapshot for display
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/real8co/real8-price-updater/config"
	"github.com/real8co/real8-price-updater/pricefeed"
)

// snapshotKey is the single cache entry the updater maintains
const snapshotKey = "real8_price_data"

// RedisCache is a Redis backed snapshot store with a fixed TTL
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// New creates a new Redis snapshot cache and verifies the connection
func New(cfg config.Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		client: client,
		ttl:    cfg.CacheTTL,
		now:    time.Now,
	}, nil
}

// Store writes the snapshot stamped with the current time
func (c *RedisCache) Store(ctx context.Context, priceXLM, priceUSD float64) error {
	snap := pricefeed.Snapshot{
		PriceXLM:  priceXLM,
		PriceUSD:  priceUSD,
		UpdatedAt: c.now().UTC(),
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, snapshotKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache snapshot: %w", err)
	}

	return nil
}

// Load returns the cached snapshot when present and unexpired. An absent,
// expired, or unreadable entry means "unavailable", never an error.
func (c *RedisCache) Load(ctx context.Context) (*pricefeed.Snapshot, bool) {
	data, err := c.client.Get(ctx, snapshotKey).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("⚠️ snapshot read failed: %v", err)
		}

		return nil, false
	}

	var snap pricefeed.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		log.Printf("⚠️ discarding unreadable snapshot: %v", err)

		return nil, false
	}

	// Redis expires the key itself; the age check keeps the contract exact
	// even when the entry was written with a different TTL.
	if !c.fresh(snap) {
		return nil, false
	}

	return &snap, true
}

// Clear drops the cached snapshot
func (c *RedisCache) Clear(ctx context.Context) error {
	if err := c.client.Del(ctx, snapshotKey).Err(); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	return nil
}

// Close closes the underlying Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// fresh reports whether the snapshot is younger than the TTL
func (c *RedisCache) fresh(snap pricefeed.Snapshot) bool {
	return c.now().Sub(snap.UpdatedAt) < c.ttl
}
