package domain

import (
	"errors"
	"fmt"
	"slices"
)

// Graph is an undirected graph with non-negative integer edge weights.
// Every edge is stored in both directions with the same weight.
// A Graph is built once and treated as read-only while a simulation runs.
type Graph struct {
	adj   map[Node]map[Node]int
	order map[Node][]Node
	edges int
}

func NewGraph() *Graph {
	return &Graph{
		adj:   make(map[Node]map[Node]int),
		order: make(map[Node][]Node),
	}
}

// AddNode adds n if it is not already a member.
func (g *Graph) AddNode(n Node) {
	if _, ok := g.adj[n]; ok {
		return
	}
	g.adj[n] = make(map[Node]int)
	g.order[n] = nil
}

// AddEdge connects a and b, adding missing endpoints. Re-adding an existing
// edge overwrites its weight.
func (g *Graph) AddEdge(a, b Node, weight int) error {
	if weight < 0 {
		return fmt.Errorf("add edge %s-%s: weight %d must be non-negative", a, b, weight)
	}
	if a == b {
		return fmt.Errorf("add edge %s-%s: self loops are not allowed", a, b)
	}

	g.AddNode(a)
	g.AddNode(b)

	if _, ok := g.adj[a][b]; !ok {
		g.order[a] = insertSorted(g.order[a], b)
		g.order[b] = insertSorted(g.order[b], a)
		g.edges++
	}
	g.adj[a][b] = weight
	g.adj[b][a] = weight

	return nil
}

// RemoveNode deletes n and every edge touching it.
func (g *Graph) RemoveNode(n Node) {
	nbrs, ok := g.adj[n]
	if !ok {
		return
	}
	for m := range nbrs {
		delete(g.adj[m], n)
		g.order[m] = slices.DeleteFunc(g.order[m], func(x Node) bool { return x == n })
		g.edges--
	}
	delete(g.adj, n)
	delete(g.order, n)
}

func (g *Graph) Has(n Node) bool {
	_, ok := g.adj[n]
	return ok
}

// Neighbors returns the nodes adjacent to n in row-major order.
// The returned slice must not be modified.
func (g *Graph) Neighbors(n Node) []Node {
	return g.order[n]
}

func (g *Graph) Weight(a, b Node) (int, bool) {
	w, ok := g.adj[a][b]
	return w, ok
}

// Nodes returns every member in row-major order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.adj))
	for n := range g.adj {
		out = append(out, n)
	}
	slices.SortFunc(out, compareNodes)
	return out
}

func (g *Graph) NodeCount() int { return len(g.adj) }

func (g *Graph) EdgeCount() int { return g.edges }

// Validate checks the undirected-edge invariant.
func (g *Graph) Validate() error {
	for a, nbrs := range g.adj {
		for b, w := range nbrs {
			if !g.Has(b) {
				return fmt.Errorf("validate graph: edge %s-%s: endpoint is not a member", a, b)
			}
			back, ok := g.adj[b][a]
			if !ok || back != w {
				return fmt.Errorf("validate graph: edge %s-%s is not symmetric", a, b)
			}
			if w < 0 {
				return errors.New("validate graph: negative edge weight")
			}
		}
	}
	return nil
}

func compareNodes(a, b Node) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	}
	return 0
}

func insertSorted(s []Node, n Node) []Node {
	i, _ := slices.BinarySearchFunc(s, n, compareNodes)
	return slices.Insert(s, i, n)
}
