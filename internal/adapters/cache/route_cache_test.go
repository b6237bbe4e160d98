package cache

import (
	"context"
	"logistics-sim/internal/adapters/repositories"
	"logistics-sim/internal/domain"
	"logistics-sim/internal/platform/db"
	"logistics-sim/internal/ports"
	"slices"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var sample = domain.Route{
	Found: true,
	Path:  []domain.Node{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}},
	Cost:  5,
}

func exerciseCache(t *testing.T, c ports.RouteCache) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("get missing = %v, %v", ok, err)
	}

	if err := c.Put(ctx, "k", sample); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("get = %v, %v", ok, err)
	}
	if !got.Found || got.Cost != sample.Cost || !slices.Equal(got.Path, sample.Path) {
		t.Fatalf("got %v, want %v", got, sample)
	}

	// Failed searches are cached as well, and a put replaces the old value.
	if err := c.Put(ctx, "k", domain.Route{}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err = c.Get(ctx, "k")
	if err != nil || !ok || got.Found || len(got.Path) != 0 {
		t.Fatalf("after overwrite got %v, %v, %v", got, ok, err)
	}
}

func TestSQLRouteCache(t *testing.T) {
	conn, err := db.Open(db.DriverSqlite, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	if err := repositories.Migrate(context.Background(), conn, db.DriverSqlite); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	exerciseCache(t, NewSQLRouteCache(conn, db.DriverSqlite))
}

func TestRedisRouteCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedisRouteCache(client, time.Minute)
	exerciseCache(t, c)

	mr.FastForward(2 * time.Minute)
	if _, ok, err := c.Get(context.Background(), "k"); err != nil || ok {
		t.Fatalf("entry survived its ttl: %v, %v", ok, err)
	}
}

func TestSQLRouteCacheNilDB(t *testing.T) {
	c := NewSQLRouteCache(nil, db.DriverSqlite)
	if _, _, err := c.Get(context.Background(), ""); err == nil {
		t.Fatalf("expected error for nil db")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, closeFn, err := Open(ctx, Options{Kind: KindNone})
	if err != nil || c != nil || closeFn == nil {
		t.Fatalf("none = %v, %v", c, err)
	}

	mr := miniredis.RunT(t)
	c, closeFn, err = Open(ctx, Options{Kind: KindRedis, RedisAddr: mr.Addr(), TTL: time.Minute})
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	defer closeFn()
	if _, ok := c.(*RedisRouteCache); !ok {
		t.Fatalf("redis kind built %T", c)
	}

	if _, _, err := Open(ctx, Options{Kind: KindSQL}); err == nil {
		t.Fatalf("expected error for sql cache without a database")
	}
	if _, _, err := Open(ctx, Options{Kind: "memcached"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
