package search

import (
	"context"
	"logistics-sim/internal/domain"
	"math/rand/v2"
	"testing"
)

// equalPath compares two node slices for equality.
func equalPath(a, b []domain.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mustEdge(t *testing.T, g *domain.Graph, a, b domain.Node, w int) {
	t.Helper()
	if err := g.AddEdge(a, b, w); err != nil {
		t.Fatalf("add edge %s-%s: %v", a, b, err)
	}
}

var (
	nodeA = domain.Node{X: 0}
	nodeB = domain.Node{X: 1}
	nodeC = domain.Node{X: 2}
	nodeD = domain.Node{X: 3}
)

func TestFindLineGraph(t *testing.T) {
	g := domain.NewGraph()
	mustEdge(t, g, nodeA, nodeB, 1)
	mustEdge(t, g, nodeB, nodeC, 1)
	mustEdge(t, g, nodeC, nodeD, 1)

	r := Find(g, nodeA, nodeD)
	if !r.Found {
		t.Fatalf("expected a path from A to D")
	}
	want := []domain.Node{nodeA, nodeB, nodeC, nodeD}
	if !equalPath(r.Path, want) {
		t.Errorf("path = %v, want %v", r.Path, want)
	}
	if r.Cost != 3 {
		t.Errorf("cost = %d, want 3", r.Cost)
	}
}

func TestFindDisconnected(t *testing.T) {
	g := domain.NewGraph()
	mustEdge(t, g, nodeA, nodeC, 1)
	mustEdge(t, g, nodeB, nodeD, 1)

	r := Find(g, nodeA, nodeB)
	if r.Found || r.Path != nil || r.Cost != 0 {
		t.Fatalf("expected failure, got %+v", r)
	}
	if r.Err() == nil {
		t.Errorf("failed route should report an error")
	}
}

func TestFindStartNotInGraph(t *testing.T) {
	g := domain.NewGraph()
	mustEdge(t, g, nodeA, nodeB, 1)

	if r := Find(g, domain.Node{X: 99}, nodeA); r.Found {
		t.Fatalf("search from a non-member should fail, got %+v", r)
	}
}

func TestFindStartIsGoal(t *testing.T) {
	g := domain.NewGraph()
	mustEdge(t, g, nodeA, nodeB, 4)

	r := Find(g, nodeA, nodeA)
	if !r.Found || r.Cost != 0 || !equalPath(r.Path, []domain.Node{nodeA}) {
		t.Fatalf("got %+v, want [A] cost 0", r)
	}
}

func TestFindPrefersCheaperLongerPath(t *testing.T) {
	// A-D direct costs 10; A-B-C-D costs 3.
	g := domain.NewGraph()
	mustEdge(t, g, nodeA, nodeD, 10)
	mustEdge(t, g, nodeA, nodeB, 1)
	mustEdge(t, g, nodeB, nodeC, 1)
	mustEdge(t, g, nodeC, nodeD, 1)

	r := Find(g, nodeA, nodeD)
	if r.Cost != 3 || !equalPath(r.Path, []domain.Node{nodeA, nodeB, nodeC, nodeD}) {
		t.Fatalf("got %v cost %d, want A-B-C-D cost 3", r.Path, r.Cost)
	}
}

func TestFindRelaxesImprovedNode(t *testing.T) {
	// C is first discovered through the expensive edge A-C and must be
	// improved via A-B-C before D is settled.
	g := domain.NewGraph()
	mustEdge(t, g, nodeA, nodeC, 5)
	mustEdge(t, g, nodeA, nodeB, 1)
	mustEdge(t, g, nodeB, nodeC, 1)
	mustEdge(t, g, nodeC, nodeD, 1)

	r := Find(g, nodeA, nodeD)
	if r.Cost != 3 {
		t.Fatalf("cost = %d, want 3 (path %v)", r.Cost, r.Path)
	}
}

func TestFinderImplementsPort(t *testing.T) {
	g := domain.NewGraph()
	mustEdge(t, g, nodeA, nodeB, 2)

	f := NewFinder(g)
	r := f.FindPath(context.Background(), nodeA, nodeB)
	if !r.Found || r.Cost != 2 {
		t.Fatalf("got %+v", r)
	}
}

// randomGrid builds a grid with random weights and random holes.
func randomGrid(rng *rand.Rand, w, h int, holes float64) *domain.Graph {
	g := domain.NewGraph()
	present := func(n domain.Node) bool {
		// deterministic per node so both endpoints agree
		return (n.X*31+n.Y*17)%100 >= int(holes*100)
	}
	for y := range h {
		for x := range w {
			n := domain.Node{X: x, Y: y}
			if !present(n) {
				continue
			}
			g.AddNode(n)
			for _, m := range []domain.Node{{X: x + 1, Y: y}, {X: x, Y: y + 1}} {
				if m.X < w && m.Y < h && present(m) {
					_ = g.AddEdge(n, m, 1+rng.IntN(9))
				}
			}
		}
	}
	return g
}

// bellmanFord computes reference distances from start.
func bellmanFord(g *domain.Graph, start domain.Node) map[domain.Node]int {
	dist := map[domain.Node]int{start: 0}
	nodes := g.Nodes()
	for range nodes {
		changed := false
		for _, a := range nodes {
			da, ok := dist[a]
			if !ok {
				continue
			}
			for _, b := range g.Neighbors(a) {
				w, _ := g.Weight(a, b)
				if db, ok := dist[b]; !ok || da+w < db {
					dist[b] = da + w
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	return dist
}

func TestFindProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	g := randomGrid(rng, 12, 9, 0.2)
	nodes := g.Nodes()

	for i := range 40 {
		start := nodes[rng.IntN(len(nodes))]
		goal := nodes[rng.IntN(len(nodes))]
		ref := bellmanFord(g, start)

		r := Find(g, start, goal)
		want, reachable := ref[goal]
		if r.Found != reachable {
			t.Fatalf("case %d %s->%s: found=%v, reachable=%v", i, start, goal, r.Found, reachable)
		}
		if !r.Found {
			continue
		}

		if r.Path[0] != start || r.Path[len(r.Path)-1] != goal {
			t.Fatalf("case %d: path %v does not run %s->%s", i, r.Path, start, goal)
		}

		seen := map[domain.Node]bool{}
		sum := 0
		for j, n := range r.Path {
			if seen[n] {
				t.Fatalf("case %d: node %s repeated in %v", i, n, r.Path)
			}
			seen[n] = true
			if j == 0 {
				continue
			}
			w, ok := g.Weight(r.Path[j-1], n)
			if !ok {
				t.Fatalf("case %d: %s-%s is not an edge", i, r.Path[j-1], n)
			}
			sum += w
		}
		if sum != r.Cost {
			t.Fatalf("case %d: cost %d but edges sum to %d", i, r.Cost, sum)
		}
		if r.Cost != want {
			t.Fatalf("case %d: cost %d, optimal is %d", i, r.Cost, want)
		}

		again := Find(g, start, goal)
		if again.Cost != r.Cost || !equalPath(again.Path, r.Path) {
			t.Fatalf("case %d: repeated search differs: %v vs %v", i, again.Path, r.Path)
		}
	}
}
