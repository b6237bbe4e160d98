package domain

import (
	"fmt"
	"time"
)

// Route is the outcome of a single path search.
// Path runs from the start to the goal, both inclusive, and is empty when
// Found is false. Cost is the sum of edge weights along Path.
// A Route is a value; nothing mutates it after the search returns.
type Route struct {
	Found   bool          `json:"found"`
	Path    []Node        `json:"path,omitempty"`
	Cost    int           `json:"cost"`
	Elapsed time.Duration `json:"elapsed"`
}

// Err reports ErrUnreachableGoal for a failed search.
func (r Route) Err() error {
	if r.Found {
		return nil
	}
	return ErrUnreachableGoal
}

// Connects reports whether r is a found route from `from` to `to`.
func (r Route) Connects(from, to Node) bool {
	return r.Found && len(r.Path) > 0 && r.Path[0] == from && r.Path[len(r.Path)-1] == to
}

// Remaining returns the nodes still to be traversed by someone standing on
// the first node of the path.
func (r Route) Remaining() []Node {
	if len(r.Path) <= 1 {
		return nil
	}
	out := make([]Node, len(r.Path)-1)
	copy(out, r.Path[1:])
	return out
}

// Unreachable builds a failed search result.
func Unreachable(elapsed time.Duration) Route {
	return Route{Elapsed: elapsed}
}

func (r Route) String() string {
	if !r.Found {
		return "route(unreachable)"
	}
	if len(r.Path) == 0 {
		return "route(empty)"
	}
	return fmt.Sprintf("route(%s -> %s, cost=%d, hops=%d)", r.Path[0], r.Path[len(r.Path)-1], r.Cost, len(r.Path)-1)
}
