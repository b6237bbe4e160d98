package dto

import (
	"logistics-sim/internal/domain"
	"time"
)

// Omitted fields fall back to the server's scenario defaults.
type SimulationRequest struct {
	Width       *int                 `json:"width"`
	Height      *int                 `json:"height"`
	Noise       *float64             `json:"noise"`
	Packages    *int                 `json:"packages"`
	Trucks      *int                 `json:"trucks"`
	Garages     *int                 `json:"garages"`
	TruckRange  *int                 `json:"truck_range"`
	Seed        int64                `json:"seed"`
	Termination string               `json:"termination"`
	MaxTicks    int                  `json:"max_ticks"`
	Frames      bool                 `json:"frames"`
	Scenario    *domain.ScenarioSpec `json:"scenario"`
}

type SimulationResponse struct {
	Run    *domain.RunReport `json:"run"`
	Frames []domain.Snapshot `json:"frames,omitempty"`

	// Number of early frames cut to respect the server's frame limit.
	FramesDropped int `json:"frames_dropped,omitempty"`
}

type RunSummary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Outcome   string    `json:"outcome"`
	Ticks     int       `json:"ticks"`
	Packages  int       `json:"packages"`
	Delivered int       `json:"delivered"`
}

type ListSimulationsResponse struct {
	Runs []RunSummary `json:"runs"`
}
