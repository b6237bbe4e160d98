package domain

// TruckView is a read-only copy of a truck's observable state.
type TruckView struct {
	ID            int    `json:"id"`
	GarageID      int    `json:"garage_id"`
	Location      Node   `json:"location"`
	PackageID     *int   `json:"package_id,omitempty"`
	NextPackageID *int   `json:"next_package_id,omitempty"`
	Route         []Node `json:"route,omitempty"`
}

// Snapshot captures the simulation state at the end of a tick.
// Observers receive copies and cannot mutate the simulation through them.
type Snapshot struct {
	Tick       int         `json:"tick"`
	Trucks     []TruckView `json:"trucks"`
	Unassigned []int       `json:"unassigned"`
	PickingUp  []int       `json:"picking_up"`
	InTransit  []int       `json:"in_transit"`
	Delivered  []int       `json:"delivered"`
}

// TakeSnapshot copies the state of trucks and pools.
func TakeSnapshot(tick int, trucks []*Truck, pools *Pools) Snapshot {
	s := Snapshot{
		Tick:       tick,
		Trucks:     make([]TruckView, 0, len(trucks)),
		Unassigned: packageIDs(pools.Unassigned),
		PickingUp:  packageIDs(pools.PickingUp),
		InTransit:  packageIDs(pools.InTransit),
		Delivered:  packageIDs(pools.Delivered),
	}

	for _, t := range trucks {
		v := TruckView{
			ID:       t.ID,
			GarageID: t.Garage.ID,
			Location: t.Location,
			Route:    append([]Node(nil), t.Route...),
		}
		if t.Package != nil {
			id := t.Package.ID
			v.PackageID = &id
		}
		if t.NextPackage != nil {
			id := t.NextPackage.ID
			v.NextPackageID = &id
		}
		s.Trucks = append(s.Trucks, v)
	}

	return s
}

func packageIDs(pkgs []*Package) []int {
	out := make([]int, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, p.ID)
	}
	return out
}
