package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gracecourt/gracecourt-api/internal/domain/property"
	"github.com/gracecourt/gracecourt-api/internal/pkg/logger"
	"github.com/gracecourt/gracecourt-api/internal/pkg/metrics"
)

const (
	searchVersionKey = "availability:search:version"
	searchKeyPrefix  = "availability:search"
)

// Cache stores search results in Redis. Entries are keyed under a version
// counter so a single INCR invalidates every cached search.
// A nil *Cache is valid and caches nothing.
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewCache creates a search cache. Returns nil when client is nil.
func NewCache(client redis.Cmdable, ttl time.Duration) *Cache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) version(ctx context.Context) (string, error) {
	v, err := c.client.Get(ctx, searchVersionKey).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return v, err
}

func searchKey(version string, p SearchParams) string {
	return fmt.Sprintf("%s:v%s:%s:%s:%s:%d",
		searchKeyPrefix,
		version,
		strings.ToLower(strings.TrimSpace(p.Location)),
		p.CheckIn.Format(dateLayout),
		p.CheckOut.Format(dateLayout),
		p.GuestCount,
	)
}

// Get returns cached results for p along with the cache version it read.
// The version must be handed back to Set. Any Redis failure counts as a miss
// with an empty version.
func (c *Cache) Get(ctx context.Context, p SearchParams) ([]*property.Property, string, bool) {
	if c == nil {
		return nil, "", false
	}

	version, err := c.version(ctx)
	if err != nil {
		c.bypass(ctx, "version", err)
		return nil, "", false
	}

	data, err := c.client.Get(ctx, searchKey(version, p)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordSearchCache("miss")
		return nil, version, false
	}
	if err != nil {
		c.bypass(ctx, "get", err)
		return nil, version, false
	}

	var items []*property.Property
	if err := json.Unmarshal(data, &items); err != nil {
		c.bypass(ctx, "decode", err)
		return nil, version, false
	}

	metrics.RecordSearchCache("hit")
	return items, version, true
}

// Set stores results for p under version, the value Get returned before the
// stores were queried. An empty version skips the write.
func (c *Cache) Set(ctx context.Context, version string, p SearchParams, items []*property.Property) {
	if c == nil || version == "" {
		return
	}

	data, err := json.Marshal(items)
	if err != nil {
		c.bypass(ctx, "encode", err)
		return
	}

	if err := c.client.Set(ctx, searchKey(version, p), data, c.ttl).Err(); err != nil {
		c.bypass(ctx, "set", err)
	}
}

// Invalidate bumps the version so existing entries are never read again.
// Old entries expire on their own TTL.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Incr(ctx, searchVersionKey).Err(); err != nil {
		c.bypass(ctx, "invalidate", err)
	}
}

func (c *Cache) bypass(ctx context.Context, op string, err error) {
	metrics.RecordSearchCache("error")
	logger.FromContext(ctx).Warn().Err(err).Str("op", op).Msg("Search cache unavailable, bypassing")
}
