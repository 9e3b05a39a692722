package airspace

import (
	"github.com/a-random-oracle/Fly-Hard-sub000/pkg/types"

	"github.com/labstack/gommon/log"
)

// HangarSize bounds the number of aircraft an airport can hold for departure.
const HangarSize = 3

// Departer is an aircraft waiting in a hangar.
type Departer interface {
	Callsign() types.AircraftID
	TakeOff()
}

type hangarEntry struct {
	aircraft  Departer
	enteredAt float64
}

type Airport struct {
	types.Waypoint

	// Owner is the index of the player controlling this airport.
	Owner int

	ArrivalsZone   types.Rect
	DeparturesZone types.Rect

	// runway holds the callsigns of aircraft landing on or departing from
	// the airport.
	runway []types.AircraftID
	hangar []hangarEntry
}

// NewAirport returns an interior airport at (x, y) whose arrivals and
// departures zones are squares of the given size centered on it.
func NewAirport(name string, x, y, zoneSize float64, owner int) *Airport {
	zone := types.Rect{X: x - zoneSize/2, Y: y - zoneSize/2, Width: zoneSize, Height: zoneSize}
	return &Airport{
		Waypoint:       types.Waypoint{Name: name, Location: types.NewVec3(x, y, 0)},
		Owner:          owner,
		ArrivalsZone:   zone,
		DeparturesZone: zone,
	}
}

func (ap *Airport) IsWithinArrivals(p types.Vec3) bool {
	return ap.ArrivalsZone.Contains(p)
}

func (ap *Airport) IsWithinDepartures(p types.Vec3) bool {
	return ap.DeparturesZone.Contains(p)
}

// IsActive reports whether the runway is in use by a landing or departing
// aircraft.
func (ap *Airport) IsActive() bool {
	return len(ap.runway) > 0
}

// Acquire marks the runway in use by id. Acquiring twice is a no-op.
func (ap *Airport) Acquire(id types.AircraftID) {
	for _, h := range ap.runway {
		if h == id {
			return
		}
	}
	ap.runway = append(ap.runway, id)
}

// Release frees id's hold on the runway. The runway stays active while any
// other aircraft still holds it.
func (ap *Airport) Release(id types.AircraftID) {
	for i, h := range ap.runway {
		if h == id {
			ap.runway = append(ap.runway[:i], ap.runway[i+1:]...)
			return
		}
	}
}

// RunwayHolders returns the callsigns currently using the runway.
func (ap *Airport) RunwayHolders() []types.AircraftID {
	return append([]types.AircraftID(nil), ap.runway...)
}

// AddToHangar queues ac for departure at simulation time now. A full hangar
// drops the request and returns false.
func (ap *Airport) AddToHangar(ac Departer, now float64) bool {
	if len(ap.hangar) >= HangarSize {
		log.Debugf("%s: hangar full, dropping %s", ap.Name, ac.Callsign())
		return false
	}
	ap.hangar = append(ap.hangar, hangarEntry{aircraft: ac, enteredAt: now})
	return true
}

// SignalTakeOff releases the aircraft that has waited longest. It returns
// nil if the hangar is empty.
func (ap *Airport) SignalTakeOff() Departer {
	if len(ap.hangar) == 0 {
		return nil
	}
	head := ap.hangar[0]
	ap.hangar = ap.hangar[1:]
	ap.Acquire(head.aircraft.Callsign())
	log.Infof("%s: %s cleared for takeoff", ap.Name, head.aircraft.Callsign())
	head.aircraft.TakeOff()
	return head.aircraft
}

// LongestTimeInHangar returns how long the head of the queue has waited, or
// zero if the hangar is empty.
func (ap *Airport) LongestTimeInHangar(now float64) float64 {
	if len(ap.hangar) == 0 {
		return 0
	}
	return now - ap.hangar[0].enteredAt
}

func (ap *Airport) HangarCount() int {
	return len(ap.hangar)
}

// Hangar returns the queued aircraft, oldest first.
func (ap *Airport) Hangar() []Departer {
	h := make([]Departer, len(ap.hangar))
	for i, e := range ap.hangar {
		h[i] = e.aircraft
	}
	return h
}

// HangarEntryTimes returns the queue timestamps in the same order as Hangar.
func (ap *Airport) HangarEntryTimes() []float64 {
	ts := make([]float64, len(ap.hangar))
	for i, e := range ap.hangar {
		ts[i] = e.enteredAt
	}
	return ts
}
