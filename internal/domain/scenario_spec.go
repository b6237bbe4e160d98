package domain

import "fmt"

// ScenarioSpec describes a hand-written scenario: an explicit network plus
// the garages, trucks and packages placed on it.
type ScenarioSpec struct {
	Name     string        `json:"name" yaml:"name" toml:"name"`
	Nodes    []Node        `json:"nodes" yaml:"nodes" toml:"nodes"`
	Edges    []EdgeSpec    `json:"edges" yaml:"edges" toml:"edges"`
	Garages  []GarageSpec  `json:"garages" yaml:"garages" toml:"garages"`
	Trucks   []TruckSpec   `json:"trucks" yaml:"trucks" toml:"trucks"`
	Packages []PackageSpec `json:"packages" yaml:"packages" toml:"packages"`
}

type EdgeSpec struct {
	From Node `json:"from" yaml:"from" toml:"from"`
	To   Node `json:"to" yaml:"to" toml:"to"`
	// Defaults to 1 when omitted.
	Weight *int `json:"weight,omitempty" yaml:"weight,omitempty" toml:"weight,omitempty"`
}

type GarageSpec struct {
	ID       int  `json:"id" yaml:"id" toml:"id"`
	Location Node `json:"location" yaml:"location" toml:"location"`
}

type TruckSpec struct {
	ID     int `json:"id" yaml:"id" toml:"id"`
	Garage int `json:"garage" yaml:"garage" toml:"garage"`
	Range  int `json:"range" yaml:"range" toml:"range"`
}

type PackageSpec struct {
	ID          int  `json:"id" yaml:"id" toml:"id"`
	Source      Node `json:"source" yaml:"source" toml:"source"`
	Destination Node `json:"destination" yaml:"destination" toml:"destination"`
}

// Graph builds the network described by the spec.
func (s *ScenarioSpec) Graph() (*Graph, error) {
	g := NewGraph()
	for _, n := range s.Nodes {
		g.AddNode(n)
	}
	for _, e := range s.Edges {
		w := 1
		if e.Weight != nil {
			w = *e.Weight
		}
		if err := g.AddEdge(e.From, e.To, w); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
		}
	}
	return g, nil
}
