package domain

import (
	"fmt"
	"slices"
)

// PoolKind names one of the four disjoint package states.
type PoolKind int

const (
	PoolNone PoolKind = iota
	PoolUnassigned
	PoolPickingUp
	PoolInTransit
	PoolDelivered
)

func (k PoolKind) String() string {
	switch k {
	case PoolUnassigned:
		return "unassigned"
	case PoolPickingUp:
		return "picking_up"
	case PoolInTransit:
		return "in_transit"
	case PoolDelivered:
		return "delivered"
	}
	return "none"
}

// Pools partitions a simulation's packages by state.
// Every package is in exactly one pool; transitions only move forward
// (unassigned -> picking up -> in transit -> delivered). Each pool keeps
// insertion order so candidate scans are reproducible.
type Pools struct {
	Unassigned []*Package
	PickingUp  []*Package
	InTransit  []*Package
	Delivered  []*Package

	where map[int]PoolKind
	total int
}

// NewPools places every package in the unassigned pool.
func NewPools(pkgs []*Package) (*Pools, error) {
	p := &Pools{
		Unassigned: make([]*Package, 0, len(pkgs)),
		where:      make(map[int]PoolKind, len(pkgs)),
	}
	for _, pkg := range pkgs {
		if _, dup := p.where[pkg.ID]; dup {
			return nil, fmt.Errorf("new pools: duplicate package id %d", pkg.ID)
		}
		p.Unassigned = append(p.Unassigned, pkg)
		p.where[pkg.ID] = PoolUnassigned
	}
	p.total = len(pkgs)
	return p, nil
}

func (p *Pools) Total() int { return p.total }

// AllAssigned reports whether no package is left waiting for a truck.
func (p *Pools) AllAssigned() bool { return len(p.Unassigned) == 0 }

// AllDelivered reports whether every package reached the delivered pool.
func (p *Pools) AllDelivered() bool { return len(p.Delivered) == p.total }

func (p *Pools) Where(id int) PoolKind { return p.where[id] }

// Claim moves pkg from unassigned to picking up.
func (p *Pools) Claim(pkg *Package) error {
	return p.move(pkg, PoolUnassigned, PoolPickingUp)
}

// Load moves pkg from picking up to in transit.
func (p *Pools) Load(pkg *Package) error {
	return p.move(pkg, PoolPickingUp, PoolInTransit)
}

// Deliver moves pkg from in transit to delivered. Delivered is terminal.
func (p *Pools) Deliver(pkg *Package) error {
	return p.move(pkg, PoolInTransit, PoolDelivered)
}

func (p *Pools) move(pkg *Package, from, to PoolKind) error {
	if got := p.where[pkg.ID]; got != from {
		return fmt.Errorf(
			"move package %d %s -> %s: package is %s: %w",
			pkg.ID, from, to, got, ErrInvariantViolation,
		)
	}

	src := p.pool(from)
	i := slices.Index(*src, pkg)
	if i < 0 {
		return fmt.Errorf("move package %d: missing from %s pool: %w", pkg.ID, from, ErrInvariantViolation)
	}
	*src = slices.Delete(*src, i, i+1)

	dst := p.pool(to)
	*dst = append(*dst, pkg)
	p.where[pkg.ID] = to
	return nil
}

func (p *Pools) pool(k PoolKind) *[]*Package {
	switch k {
	case PoolUnassigned:
		return &p.Unassigned
	case PoolPickingUp:
		return &p.PickingUp
	case PoolInTransit:
		return &p.InTransit
	case PoolDelivered:
		return &p.Delivered
	}
	return nil
}

// Check verifies that the four pools partition the package set.
func (p *Pools) Check() error {
	seen := make(map[int]PoolKind, p.total)
	for _, k := range []PoolKind{PoolUnassigned, PoolPickingUp, PoolInTransit, PoolDelivered} {
		for _, pkg := range *p.pool(k) {
			if prev, ok := seen[pkg.ID]; ok {
				return fmt.Errorf("check pools: package %d in %s and %s: %w", pkg.ID, prev, k, ErrInvariantViolation)
			}
			if p.where[pkg.ID] != k {
				return fmt.Errorf("check pools: package %d indexed as %s but stored in %s: %w", pkg.ID, p.where[pkg.ID], k, ErrInvariantViolation)
			}
			seen[pkg.ID] = k
		}
	}
	if len(seen) != p.total {
		return fmt.Errorf("check pools: %d of %d packages accounted for: %w", len(seen), p.total, ErrInvariantViolation)
	}
	return nil
}
