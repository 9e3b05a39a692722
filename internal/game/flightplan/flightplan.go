package flightplan

import (
	"errors"
	"fmt"

	"github.com/a-random-oracle/Fly-Hard-sub000/internal/game/airspace"
	"github.com/a-random-oracle/Fly-Hard-sub000/pkg/types"
)

// ErrNoRoute is returned when the planner runs out of candidates before
// reaching the destination.
var ErrNoRoute = errors.New("no route exists between origin and destination")

// destinationBias weights the remaining distance to the destination against
// the length of the next leg.
const destinationBias = 0.5

type FlightPlan struct {
	Route []*types.Waypoint

	OriginName          string
	DestinationName     string
	OriginPosition      types.Vec3
	DestinationPosition types.Vec3

	OriginAirport      *airspace.Airport
	DestinationAirport *airspace.Airport
}

// New plans a route from origin to destination through pool. Either
// airport may be nil; when set, it must be the airport whose waypoint is the
// corresponding endpoint.
func New(origin, destination *types.Waypoint, pool []*types.Waypoint,
	originAirport, destinationAirport *airspace.Airport) (*FlightPlan, error) {
	route, err := Plan(origin, destination, pool)
	if err != nil {
		return nil, err
	}
	return &FlightPlan{
		Route:               route,
		OriginName:          origin.Name,
		DestinationName:     destination.Name,
		OriginPosition:      origin.Location,
		DestinationPosition: destination.Location,
		OriginAirport:       originAirport,
		DestinationAirport:  destinationAirport,
	}, nil
}

// Plan greedily builds a route: from the current waypoint it always moves to
// the unvisited candidate minimising leg cost plus half the remaining cost
// to the destination. Boundary waypoints other than the destination are
// never used. Ties go to the earliest candidate in pool order, with the
// destination considered last.
func Plan(origin, destination *types.Waypoint, pool []*types.Waypoint) ([]*types.Waypoint, error) {
	candidates := make([]*types.Waypoint, 0, len(pool)+1)
	for _, wp := range pool {
		if !wp.SameLocation(destination) {
			candidates = append(candidates, wp)
		}
	}
	candidates = append(candidates, destination)

	var visited []*types.Waypoint
	isVisited := func(wp *types.Waypoint) bool {
		for _, v := range visited {
			if v.SameLocation(wp) {
				return true
			}
		}
		return false
	}

	current := origin
	for {
		var next *types.Waypoint
		var best float64
		for _, c := range candidates {
			if c.SameLocation(current) || c.SameLocation(origin) || isVisited(c) {
				continue
			}
			if c.Boundary && !c.SameLocation(destination) {
				continue
			}
			score := c.Cost(current) + destinationBias*c.Cost(destination)
			if next == nil || score < best {
				next, best = c, score
			}
		}
		if next == nil {
			return nil, fmt.Errorf("%s to %s: %w", origin.Name, destination.Name, ErrNoRoute)
		}

		visited = append(visited, next)
		if next.SameLocation(destination) {
			return visited, nil
		}
		current = next
	}
}

// AlterPath replaces the waypoint at stage. Boundary waypoints, the final
// (destination) stage, out-of-range stages and waypoints already on the
// route are rejected.
func (fp *FlightPlan) AlterPath(stage int, wp *types.Waypoint) bool {
	if wp == nil || wp.Boundary {
		return false
	}
	if stage < 0 || stage >= len(fp.Route)-1 {
		return false
	}
	for i, r := range fp.Route {
		if i != stage && r.SameLocation(wp) {
			return false
		}
	}
	fp.Route[stage] = wp
	return true
}

// IndexOfWaypoint returns the stage at which wp appears, or -1.
func (fp *FlightPlan) IndexOfWaypoint(wp *types.Waypoint) int {
	for i, r := range fp.Route {
		if r == wp || r.SameLocation(wp) {
			return i
		}
	}
	return -1
}

// TotalDistance is the length of the planned path, starting from the origin
// position.
func (fp *FlightPlan) TotalDistance() float64 {
	var d float64
	prev := fp.OriginPosition
	for _, wp := range fp.Route {
		d += prev.DistanceTo(wp.Location)
		prev = wp.Location
	}
	return d
}

// Destination is the final waypoint of the route.
func (fp *FlightPlan) Destination() *types.Waypoint {
	return fp.Route[len(fp.Route)-1]
}
