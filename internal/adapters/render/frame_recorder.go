// Package render collects per-tick simulation frames for later display.
package render

import (
	"logistics-sim/internal/domain"
	"sync"
)

// FrameRecorder keeps the snapshots of a run. When Limit is positive only
// the most recent Limit frames are kept.
// Frames may be read from another goroutine while the simulation runs.
type FrameRecorder struct {
	Limit int

	mu      sync.Mutex
	frames  []domain.Snapshot
	dropped int
}

func NewFrameRecorder(limit int) *FrameRecorder {
	return &FrameRecorder{Limit: limit}
}

func (r *FrameRecorder) ObserveTick(s domain.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frames = append(r.frames, s)
	if r.Limit > 0 && len(r.frames) > r.Limit {
		over := len(r.frames) - r.Limit
		r.frames = append(r.frames[:0], r.frames[over:]...)
		r.dropped += over
	}
}

// Frames returns a copy of the recorded frames, oldest first.
func (r *FrameRecorder) Frames() []domain.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Snapshot(nil), r.frames...)
}

// Dropped reports how many early frames were discarded to respect Limit.
func (r *FrameRecorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}
