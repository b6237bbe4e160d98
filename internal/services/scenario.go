package services

import (
	"context"
	"errors"
	"fmt"
	"logistics-sim/internal/domain"
	"logistics-sim/internal/ports"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Scenario is everything a dispatcher needs to run.
type Scenario struct {
	Graph    *domain.Graph
	Finder   ports.PathFinder
	Garages  []*domain.Garage
	Trucks   []*domain.Truck
	Packages []*domain.Package
	Timings  domain.PhaseTimings
}

// FinderFactory returns the path finder used on a freshly built graph.
type FinderFactory func(g *domain.Graph) ports.PathFinder

func DefaultParams() domain.ScenarioParams {
	return domain.ScenarioParams{
		Width:      75,
		Height:     33,
		Noise:      0.4,
		Packages:   24,
		Trucks:     7,
		Garages:    4,
		TruckRange: 100,
	}
}

func ValidateParams(p domain.ScenarioParams) error {
	var errs []error
	if p.Width <= 0 || p.Height <= 0 {
		errs = append(errs, fmt.Errorf("grid %dx%d must be positive", p.Width, p.Height))
	}
	if p.Noise < 0 || p.Noise >= 1 {
		errs = append(errs, fmt.Errorf("noise %v must be in [0, 1)", p.Noise))
	}
	if p.Packages < 0 || p.Trucks < 0 || p.Garages < 0 {
		errs = append(errs, errors.New("packages, trucks and garages must not be negative"))
	}
	if p.Trucks > 0 && p.Garages == 0 {
		errs = append(errs, errors.New("trucks need at least one garage"))
	}
	if p.Packages > 0 && p.Trucks == 0 {
		errs = append(errs, errors.New("packages need at least one truck"))
	}
	if p.TruckRange < 0 {
		errs = append(errs, fmt.Errorf("truck range %d must not be negative", p.TruckRange))
	}
	return errors.Join(errs...)
}

// BuildScenario generates a random scenario. Packages, garages and trucks
// are placed on uniformly chosen nodes of the generated graph, and each
// truck is assigned to a uniformly chosen garage.
func BuildScenario(
	ctx context.Context,
	p domain.ScenarioParams,
	gen ports.MapGenerator,
	rng ports.RandSource,
	newFinder FinderFactory,
) (*Scenario, error) {
	if err := ValidateParams(p); err != nil {
		return nil, fmt.Errorf("build scenario: %w", err)
	}

	s := &Scenario{}

	start := time.Now()
	g, err := gen.Generate(rng)
	if err != nil {
		return nil, fmt.Errorf("build scenario: generate graph: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("build scenario: %w", err)
	}
	s.Graph = g
	s.Finder = newFinder(g)
	s.Timings.Graph = time.Since(start)

	nodes := g.Nodes()
	if len(nodes) == 0 && (p.Packages > 0 || p.Garages > 0) {
		return nil, errors.New("build scenario: generated graph is empty")
	}

	start = time.Now()
	if s.Packages, err = createPackages(ctx, s.Finder, nodes, p.Packages, rng); err != nil {
		return nil, fmt.Errorf("build scenario: %w", err)
	}
	s.Timings.Packages = time.Since(start)
	for _, pkg := range s.Packages {
		s.Timings.Searching += pkg.SearchTime
	}

	start = time.Now()
	s.Garages = make([]*domain.Garage, 0, p.Garages)
	for i := range p.Garages {
		s.Garages = append(s.Garages, domain.NewGarage(i, nodes[rng.IntN(len(nodes))]))
	}
	s.Timings.Garages = time.Since(start)

	start = time.Now()
	s.Trucks = make([]*domain.Truck, 0, p.Trucks)
	for i := range p.Trucks {
		garage := s.Garages[rng.IntN(len(s.Garages))]
		s.Trucks = append(s.Trucks, domain.NewTruck(i, garage, p.TruckRange))
	}
	s.Timings.Trucks = time.Since(start)

	return s, nil
}

// createPackages draws every endpoint up front so the random stream does not
// depend on scheduling, then runs the searches concurrently.
func createPackages(
	ctx context.Context,
	finder ports.PathFinder,
	nodes []domain.Node,
	n int,
	rng ports.RandSource,
) ([]*domain.Package, error) {
	type endpoints struct{ src, dst domain.Node }

	pairs := make([]endpoints, n)
	for i := range pairs {
		pairs[i] = endpoints{
			src: nodes[rng.IntN(len(nodes))],
			dst: nodes[rng.IntN(len(nodes))],
		}
	}

	pkgs := make([]*domain.Package, n)

	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, pair := range pairs {
		eg.Go(func() error {
			pkg, err := CreatePackage(ectx, finder, i, pair.src, pair.dst)
			if err != nil {
				return err
			}
			pkgs[i] = pkg
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return pkgs, nil
}

// BuildFromSpec places the entities of a hand-written scenario.
func BuildFromSpec(ctx context.Context, spec *domain.ScenarioSpec, newFinder FinderFactory) (*Scenario, error) {
	if len(spec.Packages) > 0 && len(spec.Trucks) == 0 {
		return nil, fmt.Errorf("build scenario %q: %d packages but no trucks", spec.Name, len(spec.Packages))
	}

	s := &Scenario{}

	start := time.Now()
	g, err := spec.Graph()
	if err != nil {
		return nil, fmt.Errorf("build scenario: %w", err)
	}
	s.Graph = g
	s.Finder = newFinder(g)
	s.Timings.Graph = time.Since(start)

	start = time.Now()
	for _, ps := range spec.Packages {
		pkg, err := CreatePackage(ctx, s.Finder, ps.ID, ps.Source, ps.Destination)
		if err != nil {
			return nil, fmt.Errorf("build scenario %q: %w", spec.Name, err)
		}
		s.Packages = append(s.Packages, pkg)
		s.Timings.Searching += pkg.SearchTime
	}
	s.Timings.Packages = time.Since(start)

	start = time.Now()
	byID := make(map[int]*domain.Garage, len(spec.Garages))
	for _, gs := range spec.Garages {
		if _, dup := byID[gs.ID]; dup {
			return nil, fmt.Errorf("build scenario %q: duplicate garage id %d", spec.Name, gs.ID)
		}
		if !g.Has(gs.Location) {
			return nil, fmt.Errorf("build scenario %q: garage %d at %s is not on the map", spec.Name, gs.ID, gs.Location)
		}
		garage := domain.NewGarage(gs.ID, gs.Location)
		byID[gs.ID] = garage
		s.Garages = append(s.Garages, garage)
	}
	s.Timings.Garages = time.Since(start)

	start = time.Now()
	seen := make(map[int]bool, len(spec.Trucks))
	for _, ts := range spec.Trucks {
		if seen[ts.ID] {
			return nil, fmt.Errorf("build scenario %q: duplicate truck id %d", spec.Name, ts.ID)
		}
		seen[ts.ID] = true

		garage, ok := byID[ts.Garage]
		if !ok {
			return nil, fmt.Errorf("build scenario %q: truck %d references unknown garage %d", spec.Name, ts.ID, ts.Garage)
		}
		s.Trucks = append(s.Trucks, domain.NewTruck(ts.ID, garage, ts.Range))
	}
	s.Timings.Trucks = time.Since(start)

	return s, nil
}
