package mapgen

import (
	"logistics-sim/internal/domain"
	"math/rand/v2"
	"slices"
	"testing"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func TestGenerateFullGrid(t *testing.T) {
	g, err := (&Grid{Width: 5, Height: 4}).Generate(newRand(1))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if g.NodeCount() != 20 {
		t.Fatalf("nodes = %d, want 20", g.NodeCount())
	}
	if want := 4*4 + 5*3; g.EdgeCount() != want {
		t.Fatalf("edges = %d, want %d", g.EdgeCount(), want)
	}

	w, ok := g.Weight(domain.Node{X: 2, Y: 1}, domain.Node{X: 3, Y: 1})
	if !ok || w != 1 {
		t.Fatalf("weight = %d, %v; want 1", w, ok)
	}
	if _, ok := g.Weight(domain.Node{X: 0, Y: 0}, domain.Node{X: 1, Y: 1}); ok {
		t.Fatalf("diagonal edge present")
	}
}

func TestGenerateNoiseKeepsOneComponent(t *testing.T) {
	gen := &Grid{Width: 30, Height: 15, Noise: 0.4}

	for seed := range uint64(5) {
		g, err := gen.Generate(newRand(seed))
		if err != nil {
			t.Fatalf("seed %d: generate: %v", seed, err)
		}
		if g.NodeCount() == 0 || g.NodeCount() >= 30*15 {
			t.Fatalf("seed %d: %d nodes left", seed, g.NodeCount())
		}

		nodes := g.Nodes()
		if got := len(reachable(g, nodes[0])); got != len(nodes) {
			t.Fatalf("seed %d: %d of %d nodes reachable", seed, got, len(nodes))
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	gen := &Grid{Width: 20, Height: 10, Noise: 0.3, Weights: []WeightBand{{1, 50}, {2, 100}}}

	a, err := gen.Generate(newRand(42))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := gen.Generate(newRand(42))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !slices.Equal(a.Nodes(), b.Nodes()) {
		t.Fatalf("same seed produced different node sets")
	}
	for _, n := range a.Nodes() {
		for _, m := range a.Neighbors(n) {
			wa, _ := a.Weight(n, m)
			wb, ok := b.Weight(n, m)
			if !ok || wa != wb {
				t.Fatalf("edge %s-%s differs: %d vs %d", n, m, wa, wb)
			}
			if wa != 1 && wa != 2 {
				t.Fatalf("edge %s-%s has weight %d outside the bands", n, m, wa)
			}
		}
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		gen  Grid
	}{
		{"zero width", Grid{Width: 0, Height: 3}},
		{"bands short of 100", Grid{Width: 2, Height: 2, Weights: []WeightBand{{1, 60}}}},
		{"bands not increasing", Grid{Width: 2, Height: 2, Weights: []WeightBand{{1, 60}, {2, 40}, {3, 100}}}},
		{"negative weight", Grid{Width: 2, Height: 2, Weights: []WeightBand{{-1, 100}}}},
	}
	for _, tc := range tests {
		if _, err := tc.gen.Generate(newRand(1)); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestFromParams(t *testing.T) {
	gen := FromParams(domain.ScenarioParams{Width: 3, Height: 2})
	g, err := gen.Generate(newRand(7))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if g.NodeCount() != 6 {
		t.Fatalf("nodes = %d, want 6", g.NodeCount())
	}
}

func reachable(g *domain.Graph, from domain.Node) map[domain.Node]bool {
	seen := map[domain.Node]bool{from: true}
	queue := []domain.Node{from}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, m := range g.Neighbors(n) {
			if !seen[m] {
				seen[m] = true
				queue = append(queue, m)
			}
		}
	}
	return seen
}

func TestSignature(t *testing.T) {
	base := &Grid{Width: 10, Height: 6, Noise: 0.3}
	if got, want := base.Signature(), "grid/v1:10x6:0.3:1@100"; got != want {
		t.Fatalf("signature = %q, want %q", got, want)
	}

	variants := []*Grid{
		{Width: 11, Height: 6, Noise: 0.3},
		{Width: 10, Height: 6, Noise: 0.2},
		{Width: 10, Height: 6, Noise: 0.3, Weights: []WeightBand{{Weight: 1, CumFreq: 50}, {Weight: 2, CumFreq: 100}}},
	}
	for _, v := range variants {
		if v.Signature() == base.Signature() {
			t.Fatalf("%+v shares signature %q", v, base.Signature())
		}
	}
}
