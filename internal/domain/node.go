package domain

import "fmt"

// A location in the logistics network, addressed by its grid coordinate.
type Node struct {
	X int `json:"x" yaml:"x" toml:"x"`
	Y int `json:"y" yaml:"y" toml:"y"`
}

func (n Node) String() string { return fmt.Sprintf("(%d, %d)", n.X, n.Y) }

// Less orders nodes row-major so that iteration over node sets is reproducible.
func (n Node) Less(o Node) bool {
	if n.Y != o.Y {
		return n.Y < o.Y
	}
	return n.X < o.X
}
