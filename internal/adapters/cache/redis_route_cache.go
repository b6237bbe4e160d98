package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"logistics-sim/internal/domain"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRouteCache stores routes as JSON values with a TTL, so that
// simulation workers sharing a Redis instance reuse each other's searches.
type RedisRouteCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{Client: client, TTL: ttl}
}

func (c *RedisRouteCache) Get(ctx context.Context, key string) (domain.Route, bool, error) {
	if c.Client == nil {
		return domain.Route{}, false, errors.New("route cache: redis client is nil")
	}

	raw, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache key=%q: %w", key, err)
	}

	var r domain.Route
	if err := json.Unmarshal(raw, &r); err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache key=%q: decode: %w", key, err)
	}
	return r, true, nil
}

func (c *RedisRouteCache) Put(ctx context.Context, key string, r domain.Route) error {
	if c.Client == nil {
		return errors.New("route cache: redis client is nil")
	}

	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("insert route cache key=%q: encode: %w", key, err)
	}

	if err := c.Client.Set(ctx, key, raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}
	return nil
}
