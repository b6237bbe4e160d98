package domain

import "errors"

var (
	// A search could not connect its start and goal.
	ErrUnreachableGoal = errors.New("goal is unreachable")

	// A package's source and destination are disconnected.
	ErrUndeliverablePackage = errors.New("package is undeliverable")

	// No unassigned package can be reached from a truck's location.
	ErrNoReachableCandidate = errors.New("no reachable package")

	// State that a correct simulation can never produce.
	ErrInvariantViolation = errors.New("invariant violation")
)
