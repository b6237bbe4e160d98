package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"logistics-sim/internal/ports"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	KindNone  = "none"
	KindSQL   = "sql"
	KindRedis = "redis"
)

type Options struct {
	Kind string

	// SQL backend. The route_cache table must already be migrated.
	DB     *sql.DB
	Driver string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// Open builds the configured route cache. A nil cache with a nil error means
// caching is disabled. The returned close function is never nil.
func Open(ctx context.Context, opts Options) (ports.RouteCache, func() error, error) {
	noop := func() error { return nil }

	switch opts.Kind {
	case "", KindNone:
		return nil, noop, nil

	case KindSQL:
		if opts.DB == nil {
			return nil, noop, errors.New("open route cache: sql cache needs a database")
		}
		return NewSQLRouteCache(opts.DB, opts.Driver), noop, nil

	case KindRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("open route cache: ping redis %s: %w", opts.RedisAddr, err)
		}
		return NewRedisRouteCache(client, opts.TTL), client.Close, nil
	}

	return nil, noop, fmt.Errorf("open route cache: unknown kind %q", opts.Kind)
}
