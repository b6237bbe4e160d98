package services

import (
	"context"
	"fmt"
	"logistics-sim/internal/domain"
	"logistics-sim/internal/ports"
)

// CreatePackage computes the delivery route of a new package.
// A package whose destination cannot be reached from its source is
// rejected with domain.ErrUndeliverablePackage.
func CreatePackage(
	ctx context.Context,
	finder ports.PathFinder,
	id int,
	source domain.Node,
	destination domain.Node,
) (*domain.Package, error) {
	route := finder.FindPath(ctx, source, destination)

	pkg, err := domain.NewPackage(id, source, destination, route)
	if err != nil {
		return nil, fmt.Errorf("create package: %w", err)
	}

	return pkg, nil
}
