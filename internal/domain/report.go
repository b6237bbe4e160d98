package domain

import "time"

// Scalar inputs of a generated scenario.
type ScenarioParams struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Noise      float64 `json:"noise"`
	Packages   int     `json:"packages"`
	Trucks     int     `json:"trucks"`
	Garages    int     `json:"garages"`
	TruckRange int     `json:"truck_range"`
	Seed       int64   `json:"seed"`
}

// Wall-clock time spent in each phase of a run.
type PhaseTimings struct {
	Graph     time.Duration `json:"graph"`
	Packages  time.Duration `json:"packages"`
	Garages   time.Duration `json:"garages"`
	Trucks    time.Duration `json:"trucks"`
	Dispatch  time.Duration `json:"dispatch"`
	Searching time.Duration `json:"searching"`
	Total     time.Duration `json:"total"`
}

// Per-truck counters at the end of a run.
type TruckStats struct {
	TruckID          int `json:"truck_id"`
	GarageID         int `json:"garage_id"`
	DistanceTraveled int `json:"distance_traveled"`
	Delivered        int `json:"delivered"`
}

// RunReport summarizes one finished scenario run.
type RunReport struct {
	ID          string         `json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	Params      ScenarioParams `json:"params"`
	Termination string         `json:"termination"`
	GraphNodes  int            `json:"graph_nodes"`
	GraphEdges  int            `json:"graph_edges"`
	Ticks       int            `json:"ticks"`
	Packages    int            `json:"packages"`
	Delivered   int            `json:"delivered"`
	SearchCalls int            `json:"search_calls"`
	Outcome     string         `json:"outcome"`
	Timings     PhaseTimings   `json:"timings"`
	Trucks      []TruckStats   `json:"trucks"`
}
