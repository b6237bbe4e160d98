package domain

import (
	"fmt"
	"time"
)

// Represents a single delivery unit handled by the simulation.
// Source, Destination, Path and PathCost are fixed at creation; Location
// follows the truck carrying the package.
type Package struct {
	ID          int           `json:"id"`
	Source      Node          `json:"source"`
	Destination Node          `json:"destination"`
	Location    Node          `json:"location"`
	Path        []Node        `json:"path"`
	PathCost    int           `json:"path_cost"`
	SearchTime  time.Duration `json:"search_time"`
}

// NewPackage builds a package from the precomputed source->destination route.
// A package whose route was not found is never returned.
func NewPackage(id int, source, destination Node, route Route) (*Package, error) {
	if !route.Found {
		return nil, fmt.Errorf(
			"new package %d: %s -> %s: %w",
			id, source, destination, ErrUndeliverablePackage,
		)
	}

	path := make([]Node, len(route.Path))
	copy(path, route.Path)

	return &Package{
		ID:          id,
		Source:      source,
		Destination: destination,
		Location:    source,
		Path:        path,
		PathCost:    route.Cost,
		SearchTime:  route.Elapsed,
	}, nil
}

// DeliveryRoute returns the stored source->destination route.
func (p *Package) DeliveryRoute() Route {
	return Route{Found: true, Path: p.Path, Cost: p.PathCost}
}
