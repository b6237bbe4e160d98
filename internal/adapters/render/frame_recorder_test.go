package render

import (
	"logistics-sim/internal/domain"
	"testing"
)

func TestFrameRecorderKeepsLatest(t *testing.T) {
	r := NewFrameRecorder(3)
	for tick := 1; tick <= 5; tick++ {
		r.ObserveTick(domain.Snapshot{Tick: tick})
	}

	frames := r.Frames()
	if len(frames) != 3 {
		t.Fatalf("frames = %d, want 3", len(frames))
	}
	if frames[0].Tick != 3 || frames[2].Tick != 5 {
		t.Fatalf("kept ticks %d..%d, want 3..5", frames[0].Tick, frames[2].Tick)
	}
	if r.Dropped() != 2 {
		t.Fatalf("dropped = %d, want 2", r.Dropped())
	}
}

func TestFrameRecorderUnbounded(t *testing.T) {
	r := NewFrameRecorder(0)
	for tick := 1; tick <= 100; tick++ {
		r.ObserveTick(domain.Snapshot{Tick: tick})
	}
	if len(r.Frames()) != 100 || r.Dropped() != 0 {
		t.Fatalf("frames = %d, dropped = %d", len(r.Frames()), r.Dropped())
	}
}
