package services

import (
	"context"
	"errors"
	"fmt"
	"logistics-sim/internal/domain"
	"logistics-sim/internal/ports"
	"math"
	"time"

	"go.uber.org/zap"
)

var (
	ErrTickLimit = errors.New("tick limit reached")
	ErrNoTrucks  = errors.New("packages to deliver but no trucks")
)

// Termination selects when Run stops ticking.
type Termination int

const (
	// Loop while any package is undelivered.
	UntilDelivered Termination = iota
	// Loop while any package is undelivered and every garage reports all
	// of its trucks home. Trucks are registered with their garage, so this
	// stops as soon as the first truck leaves home.
	Legacy
)

func ParseTermination(s string) (Termination, error) {
	switch s {
	case "", "delivered":
		return UntilDelivered, nil
	case "legacy":
		return Legacy, nil
	}
	return 0, fmt.Errorf("unknown termination policy %q", s)
}

func (t Termination) String() string {
	if t == Legacy {
		return "legacy"
	}
	return "delivered"
}

// Outcomes recorded in run reports.
const (
	OutcomeDelivered = "delivered"
	OutcomeStopped   = "stopped"
	OutcomeTickLimit = "tick_limit"
	OutcomeInvariant = "invariant_violation"
	OutcomeCancelled = "cancelled"
)

type DispatchOptions struct {
	Termination Termination
	// Zero means unlimited.
	MaxTicks int
	// Warn when a truck finds no reachable package this many ticks in a
	// row. Zero disables the warning.
	StallWarnTicks int
	Observer       ports.TickObserver
}

// Summary describes a finished dispatch loop.
type Summary struct {
	Ticks       int
	Packages    int
	Delivered   int
	SearchCalls int
	SearchTime  time.Duration
	Outcome     string
}

// Dispatcher runs the discrete-time delivery simulation.
//
// Each tick every truck takes exactly one turn, in a fixed order. Only the
// truck taking its turn mutates the package pools, so no locking is needed;
// parallel truck evaluation would have to serialize findNextPackage.
type Dispatcher struct {
	finder  ports.PathFinder
	log     *zap.Logger
	opts    DispatchOptions
	pools   *domain.Pools
	garages []*domain.Garage
	trucks  []*domain.Truck

	tick        int
	stalls      map[int]int
	searchCalls int
	searchTime  time.Duration
}

func NewDispatcher(
	finder ports.PathFinder,
	log *zap.Logger,
	garages []*domain.Garage,
	trucks []*domain.Truck,
	pools *domain.Pools,
	opts DispatchOptions,
) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		finder:  finder,
		log:     log,
		opts:    opts,
		pools:   pools,
		garages: garages,
		trucks:  trucks,
		stalls:  make(map[int]int),
	}
}

// Run ticks until the termination policy says stop.
// Recoverable search failures never stop the loop. Invariant violations,
// the tick limit, context cancellation and a fleet without trucks do.
func (d *Dispatcher) Run(ctx context.Context) (Summary, error) {
	if len(d.trucks) == 0 && !d.pools.AllDelivered() {
		d.log.Warn("no trucks to deliver packages",
			zap.Int("undelivered", d.pools.Total()-len(d.pools.Delivered)),
		)
		return d.summary(OutcomeStopped), fmt.Errorf("run: %w", ErrNoTrucks)
	}

	for d.keepGoing() {
		if err := ctx.Err(); err != nil {
			return d.summary(OutcomeCancelled), err
		}

		if d.opts.MaxTicks > 0 && d.tick >= d.opts.MaxTicks {
			d.log.Warn("tick limit reached",
				zap.Int("ticks", d.tick),
				zap.Int("unassigned", len(d.pools.Unassigned)),
				zap.Int("picking_up", len(d.pools.PickingUp)),
				zap.Int("in_transit", len(d.pools.InTransit)),
				zap.Int("delivered", len(d.pools.Delivered)),
			)
			return d.summary(OutcomeTickLimit), fmt.Errorf("run: after %d ticks: %w", d.tick, ErrTickLimit)
		}

		if err := d.Tick(ctx); err != nil {
			outcome := OutcomeStopped
			if errors.Is(err, domain.ErrInvariantViolation) {
				outcome = OutcomeInvariant
			}
			return d.summary(outcome), fmt.Errorf("run: %w", err)
		}
	}

	if d.pools.AllDelivered() {
		return d.summary(OutcomeDelivered), nil
	}
	return d.summary(OutcomeStopped), nil
}

func (d *Dispatcher) keepGoing() bool {
	if d.pools.AllDelivered() {
		return false
	}
	if d.opts.Termination == Legacy {
		return d.trucksAreHome()
	}
	return true
}

func (d *Dispatcher) trucksAreHome() bool {
	for _, g := range d.garages {
		if !g.AllTrucksHome() {
			return false
		}
	}
	return true
}

// Tick gives every truck one turn and then publishes a snapshot.
func (d *Dispatcher) Tick(ctx context.Context) error {
	for _, t := range d.trucks {
		if err := d.FindRoute(ctx, t); err != nil {
			return fmt.Errorf("tick %d: %w", d.tick, err)
		}
	}

	if err := d.pools.Check(); err != nil {
		return fmt.Errorf("tick %d: %w", d.tick, err)
	}

	d.tick++

	if d.opts.Observer != nil {
		d.opts.Observer.ObserveTick(domain.TakeSnapshot(d.tick, d.trucks, d.pools))
	}

	return nil
}

// FindRoute is one truck turn: advance one node along the current route,
// or, when the route is exhausted, decide what to do next.
func (d *Dispatcher) FindRoute(ctx context.Context, t *domain.Truck) error {
	if !t.DestinationReached() {
		d.followRoute(t)
		return nil
	}
	return d.findNextDestination(ctx, t)
}

func (d *Dispatcher) followRoute(t *domain.Truck) {
	var status string
	switch {
	case t.NextPackage != nil && t.Empty():
		status = fmt.Sprintf("navigating to package P%d at %s", t.NextPackage.ID, t.NextPackage.Location)
	case t.Empty():
		status = "navigating to garage"
	default:
		status = fmt.Sprintf("navigating to destination %s of P%d", t.Package.Destination, t.Package.ID)
	}

	t.Move()
	d.logStatus(t, status)
}

// findNextDestination applies the first matching rule:
//
//  1. idle and packages remain unassigned: claim the nearest one
//  2. at the claimed package: pick it up
//  3. at the carried package's destination: drop it off
//  4. nothing left to assign: wait at, or drive back to, the garage
//
// A truck matching none of them is an invariant violation.
func (d *Dispatcher) findNextDestination(ctx context.Context, t *domain.Truck) error {
	var status string

	switch {
	case t.Idle() && !d.pools.AllAssigned():
		status = "finding the next closest package"
		if err := d.findNextPackage(ctx, t); err != nil {
			if !errors.Is(err, domain.ErrNoReachableCandidate) {
				return err
			}
			d.noteStall(t)
			status = "no reachable package"
		}

	case t.CanPickup():
		status = fmt.Sprintf("picking up P%d", t.NextPackage.ID)
		if err := d.pickup(t); err != nil {
			return err
		}

	case t.CanDropOff():
		status = fmt.Sprintf("dropping off P%d", t.Package.ID)
		if err := d.dropOff(t); err != nil {
			return err
		}

	case d.pools.AllAssigned():
		if t.AtGarage() {
			status = "waiting for other trucks to return"
			break
		}
		status = "returning to garage"
		d.returnHome(ctx, t)

	default:
		d.log.Error("truck state matches no rule",
			zap.Int("truck", t.ID),
			zap.Stringer("location", t.Location),
			zap.Bool("carrying", t.Package != nil),
			zap.Bool("claimed", t.NextPackage != nil),
			zap.Int("unassigned", len(d.pools.Unassigned)),
			zap.Int("picking_up", len(d.pools.PickingUp)),
			zap.Int("in_transit", len(d.pools.InTransit)),
		)
		return fmt.Errorf("truck %d at %s: no rule matches: %w", t.ID, t.Location, domain.ErrInvariantViolation)
	}

	d.logStatus(t, status)
	return nil
}

// findNextPackage claims the cheapest reachable unassigned package.
// Candidates are scanned in pool order; a later one wins only on a strictly
// lower cost.
func (d *Dispatcher) findNextPackage(ctx context.Context, t *domain.Truck) error {
	var (
		best      *domain.Package
		bestRoute domain.Route
	)
	bestCost := math.MaxInt

	for _, pkg := range d.pools.Unassigned {
		r := d.search(ctx, t.Location, pkg.Source)
		if !r.Found {
			d.log.Debug("package unreachable from truck",
				zap.Int("truck", t.ID),
				zap.Int("package", pkg.ID),
				zap.Stringer("from", t.Location),
				zap.Stringer("to", pkg.Source),
			)
			continue
		}

		if r.Cost < bestCost {
			best = pkg
			bestCost = r.Cost
			bestRoute = r
		}
	}

	if best == nil {
		return fmt.Errorf("truck %d at %s: %w", t.ID, t.Location, domain.ErrNoReachableCandidate)
	}

	if err := d.pools.Claim(best); err != nil {
		return fmt.Errorf("truck %d: %w", t.ID, err)
	}
	if err := t.Claim(best, bestRoute); err != nil {
		return err
	}

	delete(d.stalls, t.ID)
	d.log.Debug("closest package claimed",
		zap.Int("truck", t.ID),
		zap.Int("package", best.ID),
		zap.Stringer("source", best.Source),
		zap.Int("cost", bestCost),
	)
	return nil
}

func (d *Dispatcher) pickup(t *domain.Truck) error {
	pkg, err := t.Pickup()
	if err != nil {
		return err
	}
	if err := d.pools.Load(pkg); err != nil {
		return fmt.Errorf("truck %d: %w", t.ID, err)
	}
	return nil
}

func (d *Dispatcher) dropOff(t *domain.Truck) error {
	pkg, err := t.DropOff()
	if err != nil {
		return err
	}
	if err := d.pools.Deliver(pkg); err != nil {
		return fmt.Errorf("truck %d: %w", t.ID, err)
	}
	return nil
}

// returnHome routes the truck to its garage. An unreachable garage leaves
// the truck where it is; the next turn tries again.
func (d *Dispatcher) returnHome(ctx context.Context, t *domain.Truck) {
	r := d.search(ctx, t.Location, t.Garage.Location)
	if !r.Found {
		d.log.Warn("garage unreachable",
			zap.Int("truck", t.ID),
			zap.Int("garage", t.Garage.ID),
			zap.Stringer("from", t.Location),
			zap.Stringer("to", t.Garage.Location),
			zap.Error(r.Err()),
		)
		return
	}

	if err := t.SetRoute(r); err != nil {
		d.log.Warn("route home rejected", zap.Int("truck", t.ID), zap.Error(err))
	}
}

func (d *Dispatcher) noteStall(t *domain.Truck) {
	d.stalls[t.ID]++
	n := d.stalls[t.ID]
	if d.opts.StallWarnTicks > 0 && n%d.opts.StallWarnTicks == 0 {
		d.log.Warn("truck cannot reach any unassigned package",
			zap.Int("truck", t.ID),
			zap.Stringer("location", t.Location),
			zap.Int("consecutive_ticks", n),
			zap.Int("unassigned", len(d.pools.Unassigned)),
		)
	}
}

func (d *Dispatcher) search(ctx context.Context, from, to domain.Node) domain.Route {
	r := d.finder.FindPath(ctx, from, to)
	d.searchCalls++
	d.searchTime += r.Elapsed
	return r
}

func (d *Dispatcher) logStatus(t *domain.Truck, status string) {
	if ce := d.log.Check(zap.DebugLevel, "truck turn"); ce != nil {
		ce.Write(
			zap.Int("tick", d.tick),
			zap.Int("truck", t.ID),
			zap.Stringer("location", t.Location),
			zap.Bool("at_garage", t.AtGarage()),
			zap.String("status", status),
		)
	}
}

func (d *Dispatcher) summary(outcome string) Summary {
	return Summary{
		Ticks:       d.tick,
		Packages:    d.pools.Total(),
		Delivered:   len(d.pools.Delivered),
		SearchCalls: d.searchCalls,
		SearchTime:  d.searchTime,
		Outcome:     outcome,
	}
}
