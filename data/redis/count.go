package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/pagekit/paging"
	"github.com/redis/go-redis/v9"
)

// Client is the subset of redis.Cmdable the count cache uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CountCache stores collection totals with a TTL, so deep pagination
// sessions recount at most once per TTL.
type CountCache struct {
	client Client
	prefix string
	ttl    time.Duration
}

var _ paging.CountCache = (*CountCache)(nil)

// NewCountCache returns a cache writing keys under prefix. A zero ttl keeps
// counts until Invalidate.
func NewCountCache(client Client, prefix string, ttl time.Duration) *CountCache {
	return &CountCache{client: client, prefix: prefix, ttl: ttl}
}

// Key returns the redis key of a count key. Count keys can embed SQL, so they
// are hashed.
func (c *CountCache) Key(countKey string) string {
	sum := sha256.Sum256([]byte(countKey))
	return fmt.Sprintf("%s:count:%s", c.prefix, hex.EncodeToString(sum[:16]))
}

// GetCount implements paging.CountCache.
func (c *CountCache) GetCount(ctx context.Context, key string) (int64, bool, error) {
	n, err := c.client.Get(ctx, c.Key(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis: get count: %w", err)
	}
	return n, true, nil
}

// SetCount implements paging.CountCache.
func (c *CountCache) SetCount(ctx context.Context, key string, count int64) error {
	if err := c.client.Set(ctx, c.Key(key), count, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set count: %w", err)
	}
	return nil
}

// Invalidate drops cached counts, typically after writes to the collections.
func (c *CountCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	redisKeys := make([]string, len(keys))
	for i, k := range keys {
		redisKeys[i] = c.Key(k)
	}
	if err := c.client.Del(ctx, redisKeys...).Err(); err != nil {
		return fmt.Errorf("redis: invalidate counts: %w", err)
	}
	return nil
}
