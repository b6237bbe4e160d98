// Package search implements the shortest-path primitive used by the
// dispatcher: A* without a heuristic, i.e. uniform-cost search.
package search

import (
	"context"
	"logistics-sim/internal/domain"
	"logistics-sim/internal/ports"
	"time"
)

// Find returns the cheapest route from start to goal.
//
// The frontier uses lazy deletion: when a node's cost improves a new entry is
// pushed and the old one stays in the heap. A popped entry whose cost is
// above the node's best known cost is stale and skipped. There is no closed
// set; a node is re-expanded whenever a strictly cheaper path to it appears.
// Edge weights must be non-negative.
//
// A start node that is not in g, or a goal that cannot be reached, yields a
// Route with Found=false. Elapsed is always set.
func Find(g ports.Graph, start, goal domain.Node) domain.Route {
	began := time.Now()

	if !g.Has(start) {
		return domain.Unreachable(time.Since(began))
	}

	best := map[domain.Node]int{start: 0}
	// start never gets an entry; it terminates the parent walk.
	parent := make(map[domain.Node]domain.Node)

	pq := &frontier{}
	pq.add(0, start)

	for pq.Len() > 0 {
		item := pq.pop()
		current := item.node

		if item.cost > best[current] {
			continue
		}

		if current == goal {
			return domain.Route{
				Found:   true,
				Path:    reconstructPath(parent, start, goal),
				Cost:    best[current],
				Elapsed: time.Since(began),
			}
		}

		for _, next := range g.Neighbors(current) {
			w, ok := g.Weight(current, next)
			if !ok {
				continue
			}

			candidate := best[current] + w
			if old, seen := best[next]; !seen || candidate < old {
				best[next] = candidate
				parent[next] = current
				pq.add(candidate, next)
			}
		}
	}

	return domain.Unreachable(time.Since(began))
}

func reconstructPath(parent map[domain.Node]domain.Node, start, goal domain.Node) []domain.Node {
	path := []domain.Node{goal}
	current := goal
	// Bounded by the number of recorded parents so a malformed map cannot loop.
	for steps := 0; current != start && steps <= len(parent); steps++ {
		prev, ok := parent[current]
		if !ok {
			break
		}
		current = prev
		path = append(path, current)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Finder adapts Find to the PathFinder port for a fixed graph.
// The search cannot be cancelled; ctx is accepted for interface symmetry.
type Finder struct {
	Graph ports.Graph
}

func NewFinder(g ports.Graph) *Finder {
	return &Finder{Graph: g}
}

func (f *Finder) FindPath(_ context.Context, from, to domain.Node) domain.Route {
	return Find(f.Graph, from, to)
}
