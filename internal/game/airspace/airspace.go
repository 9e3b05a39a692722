package airspace

import (
	"fmt"

	"github.com/a-random-oracle/Fly-Hard-sub000/pkg/types"
)

type Airspace struct {
	Bounds types.Rect

	Waypoints map[string]*types.Waypoint
	Airports  map[string]*Airport

	// Insertion order, so that route planning and spawning do not depend on
	// map iteration order.
	waypointOrder []string
	airportOrder  []string
}

func NewAirspace(width, height float64) *Airspace {
	return &Airspace{
		Bounds:    types.Rect{Width: width, Height: height},
		Waypoints: make(map[string]*types.Waypoint),
		Airports:  make(map[string]*Airport),
	}
}

func (as *Airspace) AddWaypoint(wp *types.Waypoint) error {
	if _, ok := as.Waypoints[wp.Name]; ok {
		return fmt.Errorf("duplicate waypoint %q", wp.Name)
	}
	if _, ok := as.Airports[wp.Name]; ok {
		return fmt.Errorf("waypoint %q collides with an airport name", wp.Name)
	}
	as.Waypoints[wp.Name] = wp
	as.waypointOrder = append(as.waypointOrder, wp.Name)
	return nil
}

func (as *Airspace) AddAirport(ap *Airport) error {
	if _, ok := as.Airports[ap.Name]; ok {
		return fmt.Errorf("duplicate airport %q", ap.Name)
	}
	if _, ok := as.Waypoints[ap.Name]; ok {
		return fmt.Errorf("airport %q collides with a waypoint name", ap.Name)
	}
	as.Airports[ap.Name] = ap
	as.airportOrder = append(as.airportOrder, ap.Name)
	return nil
}

// Pool returns every registered waypoint in insertion order. Airports are not
// part of the pool; they only appear in a route as its destination.
func (as *Airspace) Pool() []*types.Waypoint {
	pool := make([]*types.Waypoint, 0, len(as.waypointOrder))
	for _, name := range as.waypointOrder {
		pool = append(pool, as.Waypoints[name])
	}
	return pool
}

func (as *Airspace) BoundaryWaypoints() []*types.Waypoint {
	var b []*types.Waypoint
	for _, wp := range as.Pool() {
		if wp.Boundary {
			b = append(b, wp)
		}
	}
	return b
}

func (as *Airspace) AirportList() []*Airport {
	aps := make([]*Airport, 0, len(as.airportOrder))
	for _, name := range as.airportOrder {
		aps = append(aps, as.Airports[name])
	}
	return aps
}

// AirportsOwnedBy returns the airports controlled by the given player.
func (as *Airspace) AirportsOwnedBy(owner int) []*Airport {
	var aps []*Airport
	for _, ap := range as.AirportList() {
		if ap.Owner == owner {
			aps = append(aps, ap)
		}
	}
	return aps
}

// Lookup resolves a name to a waypoint, including airports.
func (as *Airspace) Lookup(name string) (*types.Waypoint, bool) {
	if wp, ok := as.Waypoints[name]; ok {
		return wp, true
	}
	if ap, ok := as.Airports[name]; ok {
		return &ap.Waypoint, true
	}
	return nil, false
}
