package services

import (
	"context"
	"fmt"
	"logistics-sim/internal/domain"
	"logistics-sim/internal/ports"
	"time"

	"go.uber.org/zap"
)

// CachedFinder decorates a PathFinder with a route cache.
// Cache failures are logged and never fail a search. A found entry whose
// path does not run between the requested endpoints counts as a miss.
type CachedFinder struct {
	next      ports.PathFinder
	cache     ports.RouteCache
	namespace string
	log       *zap.Logger
}

// NewCachedFinder scopes cache keys to namespace, which must identify the
// graph the wrapped finder searches.
func NewCachedFinder(next ports.PathFinder, cache ports.RouteCache, namespace string, log *zap.Logger) *CachedFinder {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedFinder{next: next, cache: cache, namespace: namespace, log: log}
}

func RouteKey(namespace string, from, to domain.Node) string {
	return fmt.Sprintf("route:%s:%d,%d:%d,%d", namespace, from.X, from.Y, to.X, to.Y)
}

func (c *CachedFinder) FindPath(ctx context.Context, from, to domain.Node) domain.Route {
	start := time.Now()
	key := RouteKey(c.namespace, from, to)

	r, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		c.log.Warn("route cache get failed", zap.String("key", key), zap.Error(err))
	case ok && r.Found && !r.Connects(from, to):
		c.log.Warn("discarding malformed cached route",
			zap.String("key", key),
			zap.Int("path_len", len(r.Path)),
		)
	case ok:
		r.Elapsed = time.Since(start)
		return r
	}

	r = c.next.FindPath(ctx, from, to)

	// Failed searches are cached too; the graph does not change during a run.
	if err := c.cache.Put(ctx, key, r); err != nil {
		c.log.Warn("route cache put failed", zap.String("key", key), zap.Error(err))
	}

	return r
}
