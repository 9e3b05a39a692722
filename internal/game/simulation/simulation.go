package simulation

import (
	"errors"
	"fmt"
	"time"

	"github.com/a-random-oracle/Fly-Hard-sub000/internal/config"
	"github.com/a-random-oracle/Fly-Hard-sub000/internal/game/aircraft"
	"github.com/a-random-oracle/Fly-Hard-sub000/internal/game/airspace"
	"github.com/a-random-oracle/Fly-Hard-sub000/internal/game/conflict"
	"github.com/a-random-oracle/Fly-Hard-sub000/internal/game/flightplan"
	"github.com/a-random-oracle/Fly-Hard-sub000/internal/rand"
	"github.com/a-random-oracle/Fly-Hard-sub000/pkg/types"

	"github.com/labstack/gommon/log"
)

var (
	ErrUnknownAircraft = errors.New("unknown aircraft")
	ErrUnknownWaypoint = errors.New("unknown waypoint")
	ErrUnknownAirport  = errors.New("unknown airport")
	ErrRoundOver       = errors.New("round is over")
	ErrCommandDenied   = errors.New("command denied")
)

// exitMargin is how far outside the airspace an aircraft may drift before it
// is dropped as a missed handoff.
const exitMargin = 50.0

var airlinePrefixes = []string{"AAL", "SWA", "DAL", "UAL", "JBU", "ASA", "FFT", "AI", "JAL"}

// Player controls one zone of the shared airspace.
type Player struct {
	Index      int
	Aircraft   []*aircraft.Aircraft
	TotalScore int

	HandOffs       int
	Landings       int
	MissedHandoffs int

	sinceSpawn float64
}

type Simulation struct {
	Airspace        *airspace.Airspace
	Players         []*Player
	Difficulty      aircraft.Difficulty
	TickRate        float64
	GameTimeSeconds float64

	Conflicts       int
	RadioLog        []RadioMessage
	maxRadioLogSize int

	spawn          config.SpawnConfig
	spawning       bool
	rng            *rand.Rand
	nextAircraftID int

	detector  *conflict.Detector
	collision *conflict.Collision
}

// New builds the airspace and players described by cfg. The first aircraft
// for each player spawns on the first Update.
func New(cfg *config.Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	as := airspace.NewAirspace(cfg.Airspace.Width, cfg.Airspace.Height)
	for _, wp := range cfg.Airspace.Waypoints {
		if err := as.AddWaypoint(types.NewWaypoint(wp.Name, wp.X, wp.Y, wp.Boundary)); err != nil {
			return nil, err
		}
	}
	for _, ap := range cfg.Airspace.Airports {
		if err := as.AddAirport(airspace.NewAirport(ap.Name, ap.X, ap.Y, ap.ZoneSize, ap.Owner)); err != nil {
			return nil, err
		}
	}

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Simulation{
		Airspace:        as,
		Difficulty:      cfg.Difficulty(),
		TickRate:        cfg.Simulation.TickRate,
		maxRadioLogSize: 50,
		spawn:           cfg.Spawn,
		spawning:        true,
		rng:             rand.Make(seed),
		nextAircraftID:  100,
	}
	for i := 0; i < cfg.Simulation.Players; i++ {
		s.Players = append(s.Players, &Player{Index: i, sinceSpawn: cfg.Spawn.IntervalSeconds})
	}
	s.detector = conflict.NewDetector(s)

	log.Infof("simulation ready: %d player(s), %s, seed %d", len(s.Players), s.Difficulty, seed)
	return s, nil
}

// Update advances every aircraft by dt seconds, then runs separation and
// collision detection over the whole airspace. Aircraft that finished this
// tick are removed only after detection. Once a collision has ended the round
// Update does nothing.
func (s *Simulation) Update(dt float64) {
	if s.collision != nil {
		return
	}
	s.GameTimeSeconds += dt

	for _, p := range s.Players {
		for _, ac := range p.Aircraft {
			ac.Update(dt)
		}
	}

	report := s.detector.Check(s.AllAircraft())
	if report.Collision != nil {
		s.endRound(report.Collision)
	}

	s.CleanupAircraft()

	if s.collision == nil && s.spawning {
		s.spawnDue(dt)
	}
}

// AllAircraft returns every active aircraft, player by player.
func (s *Simulation) AllAircraft() []*aircraft.Aircraft {
	var all []*aircraft.Aircraft
	for _, p := range s.Players {
		all = append(all, p.Aircraft...)
	}
	return all
}

// RoundOver reports the collision that ended the round, if any.
func (s *Simulation) RoundOver() (*conflict.Collision, bool) {
	return s.collision, s.collision != nil
}

func (s *Simulation) endRound(c *conflict.Collision) {
	s.collision = c
	s.AddRadioMessage(c.A.ID, fmt.Sprintf("MAYDAY, collision with %s", c.B.ID), true)
	log.Warnf("round over at %.1fs: %s collided with %s", s.GameTimeSeconds, c.A.ID, c.B.ID)
}

// SeparationWarning is called by the detector when an aircraft first loses
// separation.
func (s *Simulation) SeparationWarning(ac *aircraft.Aircraft, peers []*aircraft.Aircraft) {
	s.Conflicts++
	msg := fmt.Sprintf("Traffic alert, %s", peers[0].ID)
	if len(peers) > 1 {
		msg = fmt.Sprintf("Traffic alert, %d aircraft", len(peers))
	}
	s.AddRadioMessage(ac.ID, msg, true)
}

// CleanupAircraft removes finished aircraft, crediting their score to the
// owning player, and drops unfinished aircraft that have left the airspace.
// Collided aircraft stay in place so the end of the round can be drawn.
func (s *Simulation) CleanupAircraft() {
	b := s.Airspace.Bounds
	limits := types.Rect{X: b.X - exitMargin, Y: b.Y - exitMargin,
		Width: b.Width + 2*exitMargin, Height: b.Height + 2*exitMargin}

	for _, p := range s.Players {
		kept := p.Aircraft[:0]
		for _, ac := range p.Aircraft {
			switch {
			case ac.HasCollided():
				kept = append(kept, ac)
			case ac.IsFinished():
				p.TotalScore += ac.Score()
				if ac.HasLanded() {
					p.Landings++
					s.AddRadioMessage(ac.ID, "Landed, vacating runway.", false)
				} else {
					p.HandOffs++
					s.AddRadioMessage(ac.ID, "Good day, contact next controller.", false)
					log.Infof("HANDOFF: %s handed off at %s", ac.ID, ac.FlightPlan().DestinationName)
				}
			case !limits.Contains(ac.Position()):
				p.MissedHandoffs++
				p.TotalScore = max(0, p.TotalScore-aircraft.ScorePenaltyLarge)
				log.Warnf("MISSED HANDOFF: %s left the airspace without a handoff", ac.ID)
			default:
				kept = append(kept, ac)
			}
		}
		for i := len(kept); i < len(p.Aircraft); i++ {
			p.Aircraft[i] = nil
		}
		p.Aircraft = kept
	}
}

func (s *Simulation) spawnDue(dt float64) {
	for _, p := range s.Players {
		p.sinceSpawn += dt
		if p.sinceSpawn < s.spawn.IntervalSeconds || len(p.Aircraft) >= s.spawn.MaxAircraft {
			continue
		}
		p.sinceSpawn = 0
		if _, err := s.Spawn(p.Index); err != nil {
			log.Warnf("spawn for player %d failed: %v", p.Index, err)
		}
	}
}

// Spawn creates an aircraft for the given player. A departure goes into one
// of the player's airport hangars; anything else enters at a boundary
// waypoint. Origin/destination pairs the planner cannot route are retried
// with a fresh pair.
func (s *Simulation) Spawn(player int) (*aircraft.Aircraft, error) {
	if player < 0 || player >= len(s.Players) {
		return nil, fmt.Errorf("invalid player %d", player)
	}
	p := s.Players[player]

	airline := rand.SampleSlice(s.rng, airlinePrefixes)
	id := types.AircraftID(fmt.Sprintf("%s%03d", airline, s.nextAircraftID))

	var lastErr error
	for attempt := 1; attempt <= s.spawn.MaxRouteRetries; attempt++ {
		opts, err := s.pickRoute(p)
		if err != nil {
			return nil, err
		}
		opts.ID = id
		opts.Airline = airline

		var ac *aircraft.Aircraft
		if opts.OriginAirport != nil {
			ac, err = aircraft.NewDeparture(opts)
		} else {
			ac, err = aircraft.New(opts)
		}
		if err != nil {
			if !errors.Is(err, flightplan.ErrNoRoute) {
				return nil, err
			}
			log.Warnf("spawn attempt %d/%d: %v", attempt, s.spawn.MaxRouteRetries, err)
			lastErr = err
			continue
		}

		if err := s.admit(p, ac, opts); err != nil {
			return nil, err
		}
		return ac, nil
	}
	return nil, fmt.Errorf("%s: gave up after %d attempts: %w", id, s.spawn.MaxRouteRetries, lastErr)
}

// admit places a new aircraft in its hangar or the player's active
// collection. The callsign serial is only consumed once the aircraft is
// placed.
func (s *Simulation) admit(p *Player, ac *aircraft.Aircraft, opts aircraft.Options) error {
	if ap := opts.OriginAirport; ap != nil {
		if !ap.AddToHangar(ac, s.GameTimeSeconds) {
			return fmt.Errorf("%s: hangar at %s is full: %w", ac.ID, ap.Name, ErrCommandDenied)
		}
		s.AddRadioMessage(ac.ID, fmt.Sprintf("Ready for departure at %s, bound for %s", ap.Name, opts.Destination.Name), false)
		log.Infof("Spawned departure %s at %s (filed for %s)", ac.ID, ap.Name, opts.Destination.Name)
	} else {
		p.Aircraft = append(p.Aircraft, ac)
		s.AddRadioMessage(ac.ID, fmt.Sprintf("With you at %.0f, routing to %s", ac.Altitude(), opts.Destination.Name), false)
		log.Infof("Spawned aircraft %s at %s (filed for %s), speed %.0f, altitude %.0f",
			ac.ID, opts.Origin.Name, opts.Destination.Name, ac.Speed(), ac.Altitude())
	}
	s.nextAircraftID++
	return nil
}

// pickRoute draws an origin and destination for a new aircraft.
func (s *Simulation) pickRoute(p *Player) (aircraft.Options, error) {
	opts := aircraft.Options{
		Owner:      p.Index,
		Pool:       s.Airspace.Pool(),
		Speed:      s.rng.Range(s.spawn.SpeedMin, s.spawn.SpeedMax),
		Altitude:   s.rng.Range(aircraft.MinAltitude, aircraft.MaxAltitude),
		Difficulty: s.Difficulty,
		OnTakeOff:  s.join,
	}

	if s.rng.Chance(s.spawn.DepartureChance) {
		own := s.Airspace.AirportsOwnedBy(p.Index)
		if idx := rand.SampleFiltered(s.rng, own, func(ap *airspace.Airport) bool {
			return ap.HangarCount() < airspace.HangarSize
		}); idx >= 0 {
			opts.OriginAirport = own[idx]
			opts.Origin = &own[idx].Waypoint
		}
	}
	if opts.Origin == nil {
		boundary := s.Airspace.BoundaryWaypoints()
		if len(boundary) == 0 {
			return opts, errors.New("airspace has no boundary waypoints")
		}
		opts.Origin = rand.SampleSlice(s.rng, boundary)
	}

	destinations := s.Airspace.BoundaryWaypoints()
	airports := make(map[string]*airspace.Airport)
	for _, ap := range s.Airspace.AirportList() {
		destinations = append(destinations, &ap.Waypoint)
		airports[ap.Name] = ap
	}
	idx := rand.SampleFiltered(s.rng, destinations, func(wp *types.Waypoint) bool {
		return wp.Name != opts.Origin.Name
	})
	if idx < 0 {
		return opts, fmt.Errorf("no destination available from %s", opts.Origin.Name)
	}
	opts.Destination = destinations[idx]
	opts.DestinationAirport = airports[opts.Destination.Name]
	return opts, nil
}

// join is handed to every aircraft as its take-off callback.
func (s *Simulation) join(ac *aircraft.Aircraft) {
	p := s.Players[ac.Owner]
	p.Aircraft = append(p.Aircraft, ac)
	s.AddRadioMessage(ac.ID, fmt.Sprintf("Airborne from %s", ac.FlightPlan().OriginName), false)
}

func (s *Simulation) lookup(id types.AircraftID) (*aircraft.Aircraft, error) {
	if s.collision != nil {
		return nil, ErrRoundOver
	}
	for _, p := range s.Players {
		for _, ac := range p.Aircraft {
			if ac.ID == id {
				return ac, nil
			}
		}
	}
	return nil, fmt.Errorf("%s: %w", id, ErrUnknownAircraft)
}

func denied(id types.AircraftID, what string) error {
	return fmt.Errorf("%s: %s: %w", id, what, ErrCommandDenied)
}

func (s *Simulation) ToggleManualControl(id types.AircraftID) error {
	ac, err := s.lookup(id)
	if err != nil {
		return err
	}
	if !ac.ToggleManualControl() {
		return denied(id, "manual control")
	}
	return nil
}

func (s *Simulation) TurnLeft(id types.AircraftID, dt float64) error {
	ac, err := s.lookup(id)
	if err != nil {
		return err
	}
	if !ac.IsManuallyControlled() {
		return denied(id, "turn left")
	}
	ac.TurnLeft(dt)
	return nil
}

func (s *Simulation) TurnRight(id types.AircraftID, dt float64) error {
	ac, err := s.lookup(id)
	if err != nil {
		return err
	}
	if !ac.IsManuallyControlled() {
		return denied(id, "turn right")
	}
	ac.TurnRight(dt)
	return nil
}

// SetBearing gives a manually controlled aircraft a heading, in radians.
func (s *Simulation) SetBearing(id types.AircraftID, bearing float64) error {
	ac, err := s.lookup(id)
	if err != nil {
		return err
	}
	if !ac.SetBearing(bearing) {
		return denied(id, "bearing")
	}
	return nil
}

func (s *Simulation) SetAltitudeState(id types.AircraftID, st aircraft.AltitudeState) error {
	ac, err := s.lookup(id)
	if err != nil {
		return err
	}
	if !ac.SetAltitudeState(st) {
		return denied(id, "altitude change")
	}
	return nil
}

// AlterPath replaces the route waypoint at stage with the named waypoint.
func (s *Simulation) AlterPath(id types.AircraftID, stage int, waypoint string) error {
	ac, err := s.lookup(id)
	if err != nil {
		return err
	}
	wp, ok := s.Airspace.Waypoints[waypoint]
	if !ok {
		return fmt.Errorf("%s: %w", waypoint, ErrUnknownWaypoint)
	}
	if !ac.AlterPath(stage, wp) {
		return denied(id, fmt.Sprintf("route change to %s at stage %d", waypoint, stage))
	}
	s.AddRadioMessage(id, fmt.Sprintf("Rerouting via %s", waypoint), false)
	return nil
}

func (s *Simulation) Land(id types.AircraftID) error {
	ac, err := s.lookup(id)
	if err != nil {
		return err
	}
	if !ac.Land() {
		return denied(id, "landing")
	}
	s.AddRadioMessage(id, fmt.Sprintf("Cleared to land at %s", ac.FlightPlan().DestinationName), false)
	return nil
}

// TakeOff releases the longest-waiting aircraft from the named airport's
// hangar. click must be inside the airport's departures zone.
func (s *Simulation) TakeOff(airport string, click types.Vec3) (types.AircraftID, error) {
	if s.collision != nil {
		return "", ErrRoundOver
	}
	ap, ok := s.Airspace.Airports[airport]
	if !ok {
		return "", fmt.Errorf("%s: %w", airport, ErrUnknownAirport)
	}
	if !ap.IsWithinDepartures(click) {
		return "", fmt.Errorf("%s: click outside departures zone: %w", airport, ErrCommandDenied)
	}
	dep := ap.SignalTakeOff()
	if dep == nil {
		return "", fmt.Errorf("%s: hangar is empty: %w", airport, ErrCommandDenied)
	}
	return dep.Callsign(), nil
}
