package ports

import "logistics-sim/internal/domain"

// Graph is the read-only view of the network the search consumes.
type Graph interface {
	Has(n domain.Node) bool
	// Neighbors must return nodes in a stable order.
	Neighbors(n domain.Node) []domain.Node
	Weight(a, b domain.Node) (int, bool)
}

// Contract for producing the network a scenario runs on.
type MapGenerator interface {
	Generate(rng RandSource) (*domain.Graph, error)
	// Signature identifies the algorithm version and settings. Two
	// generators with equal signatures produce equal graphs from equal
	// random streams.
	Signature() string
}

// Subset of *math/rand/v2.Rand used by generators and scenario builders.
type RandSource interface {
	IntN(n int) int
	Float64() float64
}
