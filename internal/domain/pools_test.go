package domain

import (
	"errors"
	"testing"
)

func testPackages(t *testing.T, n int) []*Package {
	t.Helper()
	out := make([]*Package, 0, n)
	for i := range n {
		p, err := NewPackage(i, Node{}, Node{}, Route{Found: true, Path: []Node{{}}})
		if err != nil {
			t.Fatalf("new package: %v", err)
		}
		out = append(out, p)
	}
	return out
}

func TestPoolsForwardTransitions(t *testing.T) {
	pkgs := testPackages(t, 3)
	pools, err := NewPools(pkgs)
	if err != nil {
		t.Fatalf("new pools: %v", err)
	}

	steps := []struct {
		name string
		move func(*Package) error
		want PoolKind
	}{
		{"claim", pools.Claim, PoolPickingUp},
		{"load", pools.Load, PoolInTransit},
		{"deliver", pools.Deliver, PoolDelivered},
	}

	for _, s := range steps {
		if err := s.move(pkgs[1]); err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
		if got := pools.Where(1); got != s.want {
			t.Fatalf("after %s package is %s, want %s", s.name, got, s.want)
		}
		if err := pools.Check(); err != nil {
			t.Fatalf("after %s: %v", s.name, err)
		}
	}

	if len(pools.Unassigned) != 2 || pools.Unassigned[0].ID != 0 || pools.Unassigned[1].ID != 2 {
		t.Errorf("unassigned order not preserved: %v", packageIDs(pools.Unassigned))
	}
	if pools.AllDelivered() {
		t.Errorf("only one of three delivered")
	}
}

func TestPoolsRejectSkippedTransition(t *testing.T) {
	pkgs := testPackages(t, 1)
	pools, _ := NewPools(pkgs)

	if err := pools.Deliver(pkgs[0]); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("deliver from unassigned: err = %v, want invariant violation", err)
	}
	if err := pools.Claim(pkgs[0]); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := pools.Claim(pkgs[0]); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("double claim: err = %v, want invariant violation", err)
	}
}

func TestPoolsDuplicateID(t *testing.T) {
	pkgs := testPackages(t, 1)
	if _, err := NewPools([]*Package{pkgs[0], pkgs[0]}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestPoolsEmptyIsDelivered(t *testing.T) {
	pools, _ := NewPools(nil)
	if !pools.AllDelivered() || !pools.AllAssigned() {
		t.Fatalf("empty pools should be fully delivered")
	}
}
