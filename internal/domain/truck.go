package domain

import "fmt"

// Delivery truck moving through the network one node per tick.
// A truck holds at most one package and has at most one claimed package
// waiting to be picked up; the two are never the same package.
type Truck struct {
	ID       int
	Garage   *Garage
	Location Node
	// MaxDistance is recorded but not enforced.
	MaxDistance int

	Package     *Package
	NextPackage *Package

	// Route holds the nodes still to be visited, excluding Location.
	Route     []Node
	RouteCost int

	DistanceTraveled int
	Delivered        int
}

// NewTruck parks a new truck at its garage and registers it there.
func NewTruck(id int, garage *Garage, maxDistance int) *Truck {
	t := &Truck{
		ID:          id,
		Garage:      garage,
		Location:    garage.Location,
		MaxDistance: maxDistance,
	}
	garage.AddTruck(t)
	return t
}

func (t *Truck) Empty() bool { return t.Package == nil }

func (t *Truck) AtGarage() bool { return t.Location == t.Garage.Location }

// Idle reports whether the truck neither carries nor has claimed a package.
func (t *Truck) Idle() bool { return t.Package == nil && t.NextPackage == nil }

func (t *Truck) DestinationReached() bool { return len(t.Route) == 0 }

func (t *Truck) CanPickup() bool {
	return t.NextPackage != nil && t.Location == t.NextPackage.Location
}

func (t *Truck) CanDropOff() bool {
	return t.Package != nil && t.Package.Destination == t.Location
}

// Move advances the truck to the next node of its route. The carried
// package, if any, moves with it. Each move counts as one unit of
// distance regardless of edge weight.
func (t *Truck) Move() (Node, bool) {
	if len(t.Route) == 0 {
		return t.Location, false
	}

	t.Location = t.Route[0]
	t.Route = t.Route[1:]
	t.DistanceTraveled++

	if t.Package != nil {
		t.Package.Location = t.Location
	}

	return t.Location, true
}

// SetRoute adopts a found route that starts at the truck's location.
func (t *Truck) SetRoute(r Route) error {
	if !r.Found {
		return fmt.Errorf("truck %d set route: %w", t.ID, ErrUnreachableGoal)
	}
	if len(r.Path) == 0 {
		return fmt.Errorf("truck %d set route: found route has no path: %w", t.ID, ErrInvariantViolation)
	}
	if r.Path[0] != t.Location {
		return fmt.Errorf(
			"truck %d set route: route starts at %s but truck is at %s: %w",
			t.ID, r.Path[0], t.Location, ErrInvariantViolation,
		)
	}

	t.Route = r.Remaining()
	t.RouteCost = r.Cost
	return nil
}

// Claim reserves p for pickup and heads towards it along r.
func (t *Truck) Claim(p *Package, r Route) error {
	if p == nil {
		return fmt.Errorf("truck %d claim: nil package: %w", t.ID, ErrInvariantViolation)
	}
	if !t.Idle() {
		return fmt.Errorf("truck %d claim package %d: truck is not idle: %w", t.ID, p.ID, ErrInvariantViolation)
	}

	if err := t.SetRoute(r); err != nil {
		return err
	}
	t.NextPackage = p
	return nil
}

// Pickup loads the claimed package and adopts its delivery route.
func (t *Truck) Pickup() (*Package, error) {
	if !t.CanPickup() {
		return nil, fmt.Errorf("truck %d pickup: no claimed package at %s: %w", t.ID, t.Location, ErrInvariantViolation)
	}
	if t.Package != nil {
		return nil, fmt.Errorf("truck %d pickup: already carrying package %d: %w", t.ID, t.Package.ID, ErrInvariantViolation)
	}

	p := t.NextPackage
	if err := t.SetRoute(p.DeliveryRoute()); err != nil {
		return nil, err
	}
	t.Package = p
	t.NextPackage = nil
	return p, nil
}

// DropOff unloads the carried package at its destination and resets the truck.
func (t *Truck) DropOff() (*Package, error) {
	if !t.CanDropOff() {
		return nil, fmt.Errorf("truck %d drop off: nothing to deliver at %s: %w", t.ID, t.Location, ErrInvariantViolation)
	}

	p := t.Package
	t.Delivered++
	t.Reset()
	return p, nil
}

// Reset clears everything except the statistics counters.
func (t *Truck) Reset() {
	t.Package = nil
	t.NextPackage = nil
	t.Route = nil
	t.RouteCost = 0
}
