package domain

import "slices"

// A fixed depot that trucks start from and return to.
// The garage tracks membership only; it does not own truck lifetimes.
type Garage struct {
	ID       int
	Location Node
	Trucks   []*Truck
}

func NewGarage(id int, location Node) *Garage {
	return &Garage{ID: id, Location: location}
}

func (g *Garage) AddTruck(t *Truck) {
	g.Trucks = append(g.Trucks, t)
}

func (g *Garage) RemoveTruck(t *Truck) {
	g.Trucks = slices.DeleteFunc(g.Trucks, func(x *Truck) bool { return x == t })
}

// AllTrucksHome reports whether every member truck is parked at the garage.
func (g *Garage) AllTrucksHome() bool {
	for _, t := range g.Trucks {
		if !t.AtGarage() {
			return false
		}
	}
	return true
}
