package statements

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps live-computed statements of open years in Redis for a short
// time. Results for open years are advisory, so staleness inside the TTL is
// acceptable. A nil Cache (or nil client) disables caching entirely.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(fiscalYearID int64) string {
	return fmt.Sprintf("statements:fy:%d", fiscalYearID)
}

// Get loads a cached statement. The boolean reports a hit; Redis errors are
// swallowed into a miss because the cache is an optimisation, never a source
// of truth.
func (c *Cache) Get(ctx context.Context, fiscalYearID int64) (Statement, bool) {
	if c == nil || c.client == nil {
		return Statement{}, false
	}
	payload, err := c.client.Get(ctx, cacheKey(fiscalYearID)).Bytes()
	if err != nil {
		return Statement{}, false
	}
	var st Statement
	if err := json.Unmarshal(payload, &st); err != nil {
		return Statement{}, false
	}
	return st, true
}

// Set stores a computed statement.
func (c *Cache) Set(ctx context.Context, fiscalYearID int64, st Statement) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(st)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, cacheKey(fiscalYearID), payload, c.ttl).Err()
}

// Invalidate drops the cached statement, used when a year is being closed.
func (c *Cache) Invalidate(ctx context.Context, fiscalYearID int64) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, cacheKey(fiscalYearID)).Err()
}
