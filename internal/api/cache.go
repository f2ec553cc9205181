package api

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// responseCache is an optional Redis cache for rendered JSON responses.
// A nil cache (or one without a client) is a no-op, so handlers never branch
// on whether Redis is configured.
type responseCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func newResponseCache(rdb *redis.Client, ttl time.Duration) *responseCache {
	if rdb == nil || ttl <= 0 {
		return nil
	}
	return &responseCache{rdb: rdb, ttl: ttl}
}

func (c *responseCache) read(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

func (c *responseCache) write(ctx context.Context, key string, payload []byte) {
	if c == nil {
		return
	}
	// Cache failures are invisible to clients.
	_ = c.rdb.Set(ctx, key, payload, c.ttl).Err()
}

func (c *responseCache) invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	_ = c.rdb.Del(ctx, keys...).Err()
}
