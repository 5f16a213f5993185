package score

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores computed scores per normalized phone with a TTL. Writes are
// last-writer-wins; concurrent recomputation of the same phone is safe.
type Cache struct {
	client *redis.Client
}

// NewCache creates a new score cache
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func cacheKey(phone string) string {
	return fmt.Sprintf("fraudscore:%s", phone)
}

// Get returns the cached score for a phone, or nil on a miss
func (c *Cache) Get(ctx context.Context, phone string) (*CachedScore, error) {
	raw, err := c.client.Get(ctx, cacheKey(phone)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to read score cache: %w", err)
	}

	var cached CachedScore
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		// A corrupt entry is a miss; it will be overwritten on recompute
		return nil, nil
	}

	return &cached, nil
}

// Set overwrites the cache entry for the phone
func (c *Cache) Set(ctx context.Context, entry *CachedScore, ttl time.Duration) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("unable to encode score cache entry: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey(entry.Phone), raw, ttl).Err(); err != nil {
		return fmt.Errorf("unable to write score cache: %w", err)
	}

	return nil
}
