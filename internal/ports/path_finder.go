package ports

import (
	"context"
	"logistics-sim/internal/domain"
)

// Contract for computing a route between two nodes.
// A failed search is reported through Route.Found, never as an error.
type PathFinder interface {
	FindPath(ctx context.Context, from, to domain.Node) domain.Route
}

// Storage for previously computed routes.
type RouteCache interface {
	// Return the cached route and whether it was present.
	Get(ctx context.Context, key string) (domain.Route, bool, error)
	Put(ctx context.Context, key string, route domain.Route) error
}
