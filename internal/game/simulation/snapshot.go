package simulation

import (
	"github.com/a-random-oracle/Fly-Hard-sub000/internal/game/aircraft"
	"github.com/a-random-oracle/Fly-Hard-sub000/pkg/types"

	"github.com/brunoga/deep"
)

// AircraftView is a read-only copy of an aircraft's state for renderers.
type AircraftView struct {
	ID      types.AircraftID
	Airline string
	Owner   int

	State         aircraft.State
	AltitudeState aircraft.AltitudeState
	Position      types.Vec3
	Velocity      types.Vec3
	Bearing       float64
	Speed         float64
	Separation    float64
	Score         int

	Route         []*types.Waypoint
	RouteStage    int
	Target        types.Vec3
	Destination   string
	WaitingToLand bool
	Violating     bool
	Collided      bool
}

type AirportView struct {
	types.Waypoint
	Owner          int
	Active         bool
	ArrivalsZone   types.Rect
	DeparturesZone types.Rect
	Hangar         []types.AircraftID
	LongestWait    float64
}

type PlayerView struct {
	Index          int
	TotalScore     int
	Active         int
	HandOffs       int
	Landings       int
	MissedHandoffs int
}

// Snapshot is the state of the simulation between two ticks. It shares no
// memory with the simulation and may be kept after the next Update.
type Snapshot struct {
	Time      float64
	Aircraft  []AircraftView
	Airports  []AirportView
	Waypoints []*types.Waypoint
	Players   []PlayerView
	Radio     []RadioMessage

	RoundOver bool
	Collided  [2]types.AircraftID
}

func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Time:      s.GameTimeSeconds,
		Waypoints: deep.MustCopy(s.Airspace.Pool()),
		Radio:     append([]RadioMessage(nil), s.RadioLog...),
	}

	for _, p := range s.Players {
		snap.Players = append(snap.Players, PlayerView{
			Index:          p.Index,
			TotalScore:     p.TotalScore,
			Active:         len(p.Aircraft),
			HandOffs:       p.HandOffs,
			Landings:       p.Landings,
			MissedHandoffs: p.MissedHandoffs,
		})
		for _, ac := range p.Aircraft {
			snap.Aircraft = append(snap.Aircraft, viewOf(ac))
		}
	}

	for _, ap := range s.Airspace.AirportList() {
		v := AirportView{
			Waypoint:       ap.Waypoint,
			Owner:          ap.Owner,
			Active:         ap.IsActive(),
			ArrivalsZone:   ap.ArrivalsZone,
			DeparturesZone: ap.DeparturesZone,
			LongestWait:    ap.LongestTimeInHangar(s.GameTimeSeconds),
		}
		for _, d := range ap.Hangar() {
			v.Hangar = append(v.Hangar, d.Callsign())
		}
		snap.Airports = append(snap.Airports, v)
	}

	if c, over := s.RoundOver(); over {
		snap.RoundOver = true
		snap.Collided = [2]types.AircraftID{c.A.ID, c.B.ID}
	}
	return snap
}

func viewOf(ac *aircraft.Aircraft) AircraftView {
	fp := ac.FlightPlan()
	return AircraftView{
		ID:            ac.ID,
		Airline:       ac.Airline,
		Owner:         ac.Owner,
		State:         ac.State(),
		AltitudeState: ac.AltitudeState(),
		Position:      ac.Position(),
		Velocity:      ac.Velocity(),
		Bearing:       ac.Bearing(),
		Speed:         ac.Speed(),
		Separation:    ac.MinimumSeparation(),
		Score:         ac.Score(),
		Route:         deep.MustCopy(fp.Route),
		RouteStage:    ac.RouteStage(),
		Target:        ac.CurrentTarget(),
		Destination:   fp.DestinationName,
		WaitingToLand: ac.IsWaitingToLand(),
		Violating:     len(ac.Violations()) > 0,
		Collided:      ac.HasCollided(),
	}
}

// Find returns the view of the aircraft with the given callsign.
func (snap *Snapshot) Find(id types.AircraftID) (AircraftView, bool) {
	for _, v := range snap.Aircraft {
		if v.ID == id {
			return v, true
		}
	}
	return AircraftView{}, false
}
