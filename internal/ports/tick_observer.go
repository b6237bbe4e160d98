package ports

import "logistics-sim/internal/domain"

// Receives a copy of the simulation state after every tick.
// Observers must not block for long; they run on the simulation goroutine.
type TickObserver interface {
	ObserveTick(s domain.Snapshot)
}
