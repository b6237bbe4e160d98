package services

import (
	"context"
	"errors"
	"fmt"
	"logistics-sim/internal/domain"
	"logistics-sim/internal/ports"
	"logistics-sim/internal/search"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Runner builds a scenario, dispatches it to completion and stores the
// resulting report.
type Runner struct {
	Log *zap.Logger
	// NewMap returns the generator for random scenarios.
	NewMap func(p domain.ScenarioParams) ports.MapGenerator
	// Optional.
	Cache ports.RouteCache
	Repo  ports.RunRepository
	Now   func() time.Time
}

type RunRequest struct {
	Params domain.ScenarioParams
	// Spec, when set, replaces random generation and Params is ignored
	// except for the seed.
	Spec    *domain.ScenarioSpec
	Options DispatchOptions
}

// Run executes one scenario. The report is returned even when dispatch
// fails part way; it is persisted unless the context was cancelled.
func (r *Runner) Run(ctx context.Context, req RunRequest) (*domain.RunReport, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	now := r.Now
	if now == nil {
		now = time.Now
	}

	began := time.Now()
	id := uuid.NewString()
	log = log.With(zap.String("run_id", id))

	params := req.Params
	if params.Seed == 0 {
		params.Seed = now().UnixNano()
	}

	var (
		sc  *Scenario
		err error
	)
	if req.Spec != nil {
		sc, err = BuildFromSpec(ctx, req.Spec, r.finderFactory(id, log))
		params = specParams(req.Spec, params.Seed)
	} else {
		if r.NewMap == nil {
			return nil, errors.New("run: no map generator configured")
		}
		rng := rand.New(rand.NewPCG(uint64(params.Seed), uint64(params.Seed)>>1|1))
		gen := r.NewMap(params)
		sc, err = BuildScenario(ctx, params, gen, rng, r.finderFactory(generatedNamespace(gen, params.Seed), log))
	}
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	log.Info("scenario built",
		zap.Int("nodes", sc.Graph.NodeCount()),
		zap.Int("edges", sc.Graph.EdgeCount()),
		zap.Int("packages", len(sc.Packages)),
		zap.Int("trucks", len(sc.Trucks)),
		zap.Int("garages", len(sc.Garages)),
		zap.Int64("seed", params.Seed),
	)

	pools, err := domain.NewPools(sc.Packages)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	start := time.Now()
	d := NewDispatcher(sc.Finder, log, sc.Garages, sc.Trucks, pools, req.Options)
	sum, runErr := d.Run(ctx)
	sc.Timings.Dispatch = time.Since(start)
	sc.Timings.Searching += sum.SearchTime
	sc.Timings.Total = time.Since(began)

	report := &domain.RunReport{
		ID:          id,
		CreatedAt:   now().UTC(),
		Params:      params,
		Termination: req.Options.Termination.String(),
		GraphNodes:  sc.Graph.NodeCount(),
		GraphEdges:  sc.Graph.EdgeCount(),
		Ticks:       sum.Ticks,
		Packages:    sum.Packages,
		Delivered:   sum.Delivered,
		SearchCalls: sum.SearchCalls + len(sc.Packages),
		Outcome:     sum.Outcome,
		Timings:     sc.Timings,
		Trucks:      truckStats(sc.Trucks),
	}

	log.Info("run finished",
		zap.String("outcome", report.Outcome),
		zap.Int("ticks", report.Ticks),
		zap.Int("delivered", report.Delivered),
		zap.Int("packages", report.Packages),
		zap.Duration("total", report.Timings.Total),
	)

	if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
		return report, runErr
	}

	if r.Repo != nil {
		if err := r.Repo.SaveRun(ctx, report); err != nil {
			return report, errors.Join(runErr, fmt.Errorf("run: save report: %w", err))
		}
	}

	return report, runErr
}

func (r *Runner) finderFactory(namespace string, log *zap.Logger) FinderFactory {
	return func(g *domain.Graph) ports.PathFinder {
		var f ports.PathFinder = search.NewFinder(g)
		if r.Cache != nil {
			f = NewCachedFinder(f, r.Cache, namespace, log)
		}
		return f
	}
}

// generatedNamespace identifies a generated graph by the generator and the
// seed that determine it, so repeated runs with the same seed share cached
// routes and a changed generator never reads stale ones.
func generatedNamespace(gen ports.MapGenerator, seed int64) string {
	return fmt.Sprintf("%s:%d", gen.Signature(), seed)
}

func specParams(spec *domain.ScenarioSpec, seed int64) domain.ScenarioParams {
	return domain.ScenarioParams{
		Packages: len(spec.Packages),
		Trucks:   len(spec.Trucks),
		Garages:  len(spec.Garages),
		Seed:     seed,
	}
}

func truckStats(trucks []*domain.Truck) []domain.TruckStats {
	out := make([]domain.TruckStats, 0, len(trucks))
	for _, t := range trucks {
		out = append(out, domain.TruckStats{
			TruckID:          t.ID,
			GarageID:         t.Garage.ID,
			DistanceTraveled: t.DistanceTraveled,
			Delivered:        t.Delivered,
		})
	}
	return out
}
