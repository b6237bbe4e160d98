// Package mapgen generates random grid networks for simulations.
package mapgen

import (
	"errors"
	"fmt"
	"logistics-sim/internal/domain"
	"logistics-sim/internal/ports"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// WeightBand assigns Weight to edges whose draw in 1..100 is at most
// CumFreq and above the previous band's CumFreq.
//
//	[{1, 100}]         every edge weighs 1
//	[{1, 50}, {2, 100}] half weigh 1, half weigh 2
type WeightBand struct {
	Weight  int `json:"weight" yaml:"weight" toml:"weight"`
	CumFreq int `json:"cum_freq" yaml:"cum_freq" toml:"cum_freq"`
}

var DefaultWeights = []WeightBand{{Weight: 1, CumFreq: 100}}

// Bump when a change to Generate alters the graph drawn from a given seed.
const gridVersion = 1

// Grid is a 4-neighbour lattice with random holes. Each node is removed
// with probability Noise, then every connected component but the largest
// is dropped so that any two remaining nodes are mutually reachable.
type Grid struct {
	Width   int
	Height  int
	Noise   float64
	Weights []WeightBand
}

// FromParams returns the grid generator for a scenario.
func FromParams(p domain.ScenarioParams) ports.MapGenerator {
	return &Grid{Width: p.Width, Height: p.Height, Noise: p.Noise, Weights: DefaultWeights}
}

func (g *Grid) Generate(rng ports.RandSource) (*domain.Graph, error) {
	if g.Width <= 0 || g.Height <= 0 {
		return nil, fmt.Errorf("generate grid: size %dx%d must be positive", g.Width, g.Height)
	}
	bands := g.Weights
	if len(bands) == 0 {
		bands = DefaultWeights
	}
	if err := validateBands(bands); err != nil {
		return nil, fmt.Errorf("generate grid: %w", err)
	}

	lattice := simple.NewWeightedUndirectedGraph(0, 0)
	for y := range g.Height {
		for x := range g.Width {
			lattice.AddNode(simple.Node(g.id(x, y)))
		}
	}

	// Edge weights are drawn row-major, right edge before down edge.
	for y := range g.Height {
		for x := range g.Width {
			from := simple.Node(g.id(x, y))
			if x+1 < g.Width {
				lattice.SetWeightedEdge(lattice.NewWeightedEdge(from, simple.Node(g.id(x+1, y)), drawWeight(rng, bands)))
			}
			if y+1 < g.Height {
				lattice.SetWeightedEdge(lattice.NewWeightedEdge(from, simple.Node(g.id(x, y+1)), drawWeight(rng, bands)))
			}
		}
	}

	if g.Noise > 0 {
		for id := range int64(g.Width * g.Height) {
			if rng.Float64() < g.Noise {
				lattice.RemoveNode(id)
			}
		}
	}

	out := domain.NewGraph()
	keep := largestComponent(topo.ConnectedComponents(lattice))
	for _, n := range keep {
		out.AddNode(g.node(n.ID()))
	}

	for _, n := range keep {
		nbrs := lattice.From(n.ID())
		for nbrs.Next() {
			m := nbrs.Node()
			if m.ID() < n.ID() {
				continue
			}
			w, _ := lattice.Weight(n.ID(), m.ID())
			if err := out.AddEdge(g.node(n.ID()), g.node(m.ID()), int(w)); err != nil {
				return nil, fmt.Errorf("generate grid: %w", err)
			}
		}
	}

	return out, nil
}

func (g *Grid) Signature() string {
	bands := g.Weights
	if len(bands) == 0 {
		bands = DefaultWeights
	}
	parts := make([]string, 0, len(bands))
	for _, b := range bands {
		parts = append(parts, fmt.Sprintf("%d@%d", b.Weight, b.CumFreq))
	}
	return fmt.Sprintf("grid/v%d:%dx%d:%g:%s", gridVersion, g.Width, g.Height, g.Noise, strings.Join(parts, ","))
}

func (g *Grid) id(x, y int) int64 { return int64(y*g.Width + x) }

func (g *Grid) node(id int64) domain.Node {
	return domain.Node{X: int(id) % g.Width, Y: int(id) / g.Width}
}

// largestComponent picks the biggest component; ties go to the one holding
// the lowest node id so the result does not depend on iteration order.
func largestComponent(comps [][]graph.Node) []graph.Node {
	var (
		best    []graph.Node
		bestMin int64
	)
	for _, c := range comps {
		lo := minID(c)
		if len(c) > len(best) || (len(c) == len(best) && lo < bestMin) {
			best, bestMin = c, lo
		}
	}
	return best
}

func minID(nodes []graph.Node) int64 {
	lo := nodes[0].ID()
	for _, n := range nodes[1:] {
		lo = min(lo, n.ID())
	}
	return lo
}

func drawWeight(rng ports.RandSource, bands []WeightBand) float64 {
	c := rng.IntN(100) + 1
	for _, b := range bands {
		if b.CumFreq >= c {
			return float64(b.Weight)
		}
	}
	return float64(bands[len(bands)-1].Weight)
}

func validateBands(bands []WeightBand) error {
	prev := 0
	for _, b := range bands {
		if b.Weight < 0 {
			return fmt.Errorf("weight band %d: weight must be non-negative", b.Weight)
		}
		if b.CumFreq <= prev {
			return fmt.Errorf("weight band %d: cumulative frequency %d must increase", b.Weight, b.CumFreq)
		}
		prev = b.CumFreq
	}
	if prev != 100 {
		return errors.New("weight bands must end at cumulative frequency 100")
	}
	return nil
}
