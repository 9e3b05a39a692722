package aircraft

import (
	"fmt"
	"math"

	"github.com/a-random-oracle/Fly-Hard-sub000/internal/game/airspace"
	"github.com/a-random-oracle/Fly-Hard-sub000/internal/game/flightplan"
	"github.com/a-random-oracle/Fly-Hard-sub000/pkg/types"

	"github.com/labstack/gommon/log"
)

const (
	// Radius is the hard-collision distance.
	Radius = 16.0

	MinAltitude = 28000.0
	MaxAltitude = 30000.0

	LandingDescentRate = 2501.0
	LandingAltitude    = 100.0

	InitialScore       = 100
	ScorePenaltySmall  = 1
	ScorePenaltyLarge  = 5
	arrivalThreshold   = 10.0
	bearingEpsilon     = 0.01
	turnCorrection     = 1.75
	turnCorrectionFrom = math.Pi / 2
)

type State int

const (
	EN_ROUTE State = iota
	MANUAL_CONTROL
	LANDING
	FINISHED
)

var StateStringMap = map[State]string{
	EN_ROUTE:       "EN ROUTE",
	MANUAL_CONTROL: "MANUAL",
	LANDING:        "LANDING",
	FINISHED:       "FINISHED",
}

type AltitudeState int

const (
	LEVEL AltitudeState = iota
	CLIMB
	FALL
)

var AltitudeStateStringMap = map[AltitudeState]string{
	LEVEL: "LEVEL",
	CLIMB: "CLIMB",
	FALL:  "FALL",
}

// Options describe an aircraft to the constructor. OriginAirport and
// DestinationAirport are optional; when set, Origin/Destination must be their
// waypoints.
type Options struct {
	ID      types.AircraftID
	Airline string
	Owner   int

	Origin             *types.Waypoint
	Destination        *types.Waypoint
	OriginAirport      *airspace.Airport
	DestinationAirport *airspace.Airport
	Pool               []*types.Waypoint

	Speed      float64
	Altitude   float64
	Difficulty Difficulty

	// OnTakeOff is called when the aircraft leaves its origin's hangar, so
	// that the owner can add it to its active collection.
	OnTakeOff func(*Aircraft)
}

type Aircraft struct {
	ID      types.AircraftID
	Airline string
	Owner   int

	params Params

	position     types.Vec3 // Z is altitude
	velocity     types.Vec3 // horizontal only
	verticalRate float64

	flightPlan    *flightplan.FlightPlan
	routeStage    int
	currentTarget types.Vec3

	altitudeState AltitudeState

	manual           bool
	manualBearing    float64
	hasManualBearing bool

	waitingToLand bool
	landing       bool
	landed        bool
	collided      bool
	finished      bool

	inHangar  bool
	departing bool
	onTakeOff func(*Aircraft)

	score int

	violations     []*Aircraft
	wasInViolation bool
}

// New plans the aircraft's route and places it at its origin. A route
// planning failure or an unknown difficulty is returned as an error.
func New(opts Options) (*Aircraft, error) {
	params, err := ParamsFor(opts.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.ID, err)
	}
	if opts.Speed <= 0 {
		return nil, fmt.Errorf("%s: speed must be positive, got %f", opts.ID, opts.Speed)
	}

	fp, err := flightplan.New(opts.Origin, opts.Destination, opts.Pool,
		opts.OriginAirport, opts.DestinationAirport)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.ID, err)
	}

	ac := &Aircraft{
		ID:            opts.ID,
		Airline:       opts.Airline,
		Owner:         opts.Owner,
		params:        params,
		flightPlan:    fp,
		altitudeState: LEVEL,
		waitingToLand: opts.DestinationAirport != nil,
		onTakeOff:     opts.OnTakeOff,
		score:         InitialScore,
	}
	ac.position = opts.Origin.Location
	ac.position.Z = types.Clamp(opts.Altitude, MinAltitude, MaxAltitude)
	ac.currentTarget = fp.Route[0].Location

	dir, ok := ac.currentTarget.Sub(ac.position).Horizontal().Normalise()
	if !ok {
		dir = types.NewVec3(1, 0, 0)
	}
	ac.velocity = dir.ScaleBy(opts.Speed * params.VelocityMultiplier)

	return ac, nil
}

// NewDeparture builds an aircraft that waits in its origin airport's hangar
// until TakeOff is called.
func NewDeparture(opts Options) (*Aircraft, error) {
	if opts.OriginAirport == nil {
		return nil, fmt.Errorf("%s: departure requires an origin airport", opts.ID)
	}
	ac, err := New(opts)
	if err != nil {
		return nil, err
	}
	ac.inHangar = true
	return ac, nil
}

func (ac *Aircraft) Callsign() types.AircraftID { return ac.ID }

// Update advances the aircraft by dt seconds.
func (ac *Aircraft) Update(dt float64) {
	if ac.finished || ac.inHangar {
		return
	}

	ac.updateAltitude(dt)
	if ac.finished {
		return
	}

	ac.position = ac.position.Add(ac.velocity.ScaleBy(dt))

	if ac.departing {
		if origin := ac.flightPlan.OriginAirport; !origin.IsWithinDepartures(ac.position) {
			origin.Release(ac.ID)
			ac.departing = false
		}
	}

	ac.updateTarget()
	if ac.finished {
		return
	}

	ac.turnTowardsTarget(dt)
}

func (ac *Aircraft) updateAltitude(dt float64) {
	if ac.landing {
		ac.verticalRate = -LandingDescentRate
		ac.position.Z -= LandingDescentRate * dt
		if ac.position.Z < LandingAltitude {
			ac.completeLanding()
		}
		return
	}

	switch ac.altitudeState {
	case CLIMB:
		ac.climb(dt)
	case FALL:
		ac.fall(dt)
	default:
		ac.verticalRate = 0
		ac.position.Z = types.Clamp(ac.position.Z, MinAltitude, MaxAltitude)
	}
}

func (ac *Aircraft) climb(dt float64) {
	ac.verticalRate = ac.params.VerticalVelocity
	ac.position.Z += ac.verticalRate * dt
	if ac.position.Z >= MaxAltitude {
		ac.position.Z = MaxAltitude
		ac.verticalRate = 0
		ac.altitudeState = LEVEL
	}
}

func (ac *Aircraft) fall(dt float64) {
	ac.verticalRate = -ac.params.VerticalVelocity
	ac.position.Z += ac.verticalRate * dt
	if ac.position.Z <= MinAltitude {
		ac.position.Z = MinAltitude
		ac.verticalRate = 0
		ac.altitudeState = LEVEL
	}
}

func (ac *Aircraft) completeLanding() {
	ac.landing = false
	ac.landed = true
	ac.finished = true
	ac.verticalRate = 0
	if ap := ac.flightPlan.DestinationAirport; ap != nil {
		ap.Release(ac.ID)
	}
	log.Infof("%s landed at %s", ac.ID, ac.flightPlan.DestinationName)
}

func (ac *Aircraft) isAt(p types.Vec3) bool {
	return ac.position.HorizontalDistanceSquared(p) < arrivalThreshold*arrivalThreshold
}

func (ac *Aircraft) updateTarget() {
	route := ac.flightPlan.Route
	if !ac.waitingToLand && !ac.landing && ac.isAt(ac.flightPlan.DestinationPosition) {
		ac.finished = true
		log.Debugf("%s reached %s", ac.ID, ac.flightPlan.DestinationName)
		return
	}
	if ac.isAt(ac.currentTarget) {
		if ac.routeStage < len(route) {
			ac.routeStage++
		}
		ac.retarget()
	}
}

// retarget points the autopilot at the current route stage, or at the
// destination once the route is exhausted.
func (ac *Aircraft) retarget() {
	route := ac.flightPlan.Route
	if ac.routeStage < len(route) {
		ac.currentTarget = route[ac.routeStage].Location
	} else {
		ac.currentTarget = ac.flightPlan.DestinationPosition
	}
}

func (ac *Aircraft) turnTowardsTarget(dt float64) {
	var target float64
	if ac.manual {
		if !ac.hasManualBearing {
			return
		}
		target = ac.manualBearing
	} else {
		d := ac.currentTarget.Sub(ac.position).Horizontal()
		if d.MagnitudeSquared() == 0 {
			return
		}
		target = d.Heading()
	}

	diff := types.NormalizeAngle(target - ac.Bearing())
	if math.Abs(diff) <= bearingEpsilon {
		return
	}
	ac.velocity = ac.velocity.Rotate(math.Copysign(turnAmount(ac.params.TurnSpeed, dt, diff), diff))
}

// turnAmount is the unsigned rotation applied in one tick toward a heading
// error of diff. Large errors turn harder so that an aircraft overshooting a
// waypoint does not orbit it forever.
func turnAmount(turnSpeed, dt, diff float64) float64 {
	step := math.Min(turnSpeed*dt, math.Abs(diff))
	if math.Abs(diff) >= turnCorrectionFrom {
		step *= turnCorrection
	}
	return step
}

// TurnLeft rotates counter-clockwise at the turn rate. It only applies under
// manual control and clears any bearing set with SetBearing.
func (ac *Aircraft) TurnLeft(dt float64) {
	ac.manualTurn(ac.params.TurnSpeed * dt)
}

func (ac *Aircraft) TurnRight(dt float64) {
	ac.manualTurn(-ac.params.TurnSpeed * dt)
}

func (ac *Aircraft) manualTurn(angle float64) {
	if !ac.manual || ac.finished {
		return
	}
	ac.hasManualBearing = false
	ac.velocity = ac.velocity.Rotate(angle)
}

// SetBearing gives a manually controlled aircraft a heading to turn to.
func (ac *Aircraft) SetBearing(angle float64) bool {
	if !ac.manual || ac.finished {
		return false
	}
	ac.manualBearing = types.NormalizeAngle(angle)
	ac.hasManualBearing = true
	return true
}

// ToggleManualControl switches between autopilot and manual control. It is
// refused while landing.
func (ac *Aircraft) ToggleManualControl() bool {
	if ac.finished || ac.landing || ac.inHangar {
		return false
	}
	ac.manual = !ac.manual
	if ac.manual {
		ac.manualBearing = ac.Bearing()
		ac.hasManualBearing = true
	} else {
		ac.hasManualBearing = false
		ac.retarget()
	}
	return true
}

func (ac *Aircraft) SetAltitudeState(s AltitudeState) bool {
	if ac.finished || ac.landing {
		return false
	}
	ac.altitudeState = s
	return true
}

// AlterPath replaces the waypoint at stage and costs a small score penalty.
// It is a no-op for boundary waypoints, stages already flown and other
// rejected edits.
func (ac *Aircraft) AlterPath(stage int, wp *types.Waypoint) bool {
	if ac.finished || stage < ac.routeStage || !ac.flightPlan.AlterPath(stage, wp) {
		return false
	}
	ac.DecrementScoreSmall()
	if stage == ac.routeStage {
		ac.retarget()
	}
	return true
}

// Land starts the descent. The aircraft must be waiting to land and inside
// its destination airport's arrivals zone.
func (ac *Aircraft) Land() bool {
	ap := ac.flightPlan.DestinationAirport
	if ac.finished || ac.landing || !ac.waitingToLand || ap == nil {
		return false
	}
	if !ap.IsWithinArrivals(ac.position) {
		return false
	}
	ac.waitingToLand = false
	ac.landing = true
	ac.manual = false
	ac.hasManualBearing = false
	ac.altitudeState = LEVEL
	ac.currentTarget = ap.Location
	ap.Acquire(ac.ID)
	log.Infof("%s cleared to land at %s", ac.ID, ap.Name)
	return true
}

// TakeOff releases a hangar aircraft onto its route.
func (ac *Aircraft) TakeOff() {
	if !ac.inHangar {
		return
	}
	ac.inHangar = false
	ac.departing = true
	if ac.onTakeOff != nil {
		ac.onTakeOff(ac)
	}
}

func (ac *Aircraft) DecrementScoreSmall() {
	ac.score = max(0, ac.score-ScorePenaltySmall)
}

func (ac *Aircraft) DecrementScoreLarge() {
	ac.score = max(0, ac.score-ScorePenaltyLarge)
}

func (ac *Aircraft) IncreaseTotalScore(n int) {
	ac.score = max(0, ac.score+n)
}

// MarkCollided ends the aircraft's flight after a hard collision.
func (ac *Aircraft) MarkCollided() {
	ac.collided = true
	ac.finished = true
}

// ClearViolations empties the per-tick separation violation set.
func (ac *Aircraft) ClearViolations() {
	ac.violations = ac.violations[:0]
}

func (ac *Aircraft) AddViolation(peer *Aircraft) {
	for _, v := range ac.violations {
		if v == peer {
			return
		}
	}
	ac.violations = append(ac.violations, peer)
}

// DropFinishedViolations forgets peers whose flight ended during the sweep,
// such as an aircraft that collided after the violation was recorded.
func (ac *Aircraft) DropFinishedViolations() {
	kept := ac.violations[:0]
	for _, v := range ac.violations {
		if !v.finished {
			kept = append(kept, v)
		}
	}
	ac.violations = kept
}

// CommitViolations closes the tick's separation check and reports whether
// the aircraft has just entered violation.
func (ac *Aircraft) CommitViolations() bool {
	now := len(ac.violations) > 0
	rising := now && !ac.wasInViolation
	ac.wasInViolation = now
	return rising
}

func (ac *Aircraft) Violations() []*Aircraft {
	return append([]*Aircraft(nil), ac.violations...)
}

func (ac *Aircraft) IsViolating(peer *Aircraft) bool {
	for _, v := range ac.violations {
		if v == peer {
			return true
		}
	}
	return false
}

func (ac *Aircraft) State() State {
	switch {
	case ac.finished:
		return FINISHED
	case ac.landing:
		return LANDING
	case ac.manual:
		return MANUAL_CONTROL
	default:
		return EN_ROUTE
	}
}

func (ac *Aircraft) Position() types.Vec3 { return ac.position }
func (ac *Aircraft) Velocity() types.Vec3 { return ac.velocity }
func (ac *Aircraft) Altitude() float64 { return ac.position.Z }
func (ac *Aircraft) VerticalRate() float64 { return ac.verticalRate }
func (ac *Aircraft) AltitudeState() AltitudeState { return ac.altitudeState }
func (ac *Aircraft) Speed() float64 { return ac.velocity.Magnitude() }
func (ac *Aircraft) Params() Params { return ac.params }
func (ac *Aircraft) MinimumSeparation() float64 { return ac.params.MinimumSeparation }
func (ac *Aircraft) FlightPlan() *flightplan.FlightPlan { return ac.flightPlan }
func (ac *Aircraft) RouteStage() int { return ac.routeStage }
func (ac *Aircraft) CurrentTarget() types.Vec3 { return ac.currentTarget }
func (ac *Aircraft) Score() int { return ac.score }
func (ac *Aircraft) IsFinished() bool { return ac.finished }
func (ac *Aircraft) IsManuallyControlled() bool { return ac.manual }
func (ac *Aircraft) IsLanding() bool { return ac.landing }
func (ac *Aircraft) IsWaitingToLand() bool { return ac.waitingToLand }
func (ac *Aircraft) HasLanded() bool { return ac.landed }
func (ac *Aircraft) HasCollided() bool { return ac.collided }
func (ac *Aircraft) InHangar() bool { return ac.inHangar }

// Bearing is the current heading in radians, measured from +X toward +Y.
func (ac *Aircraft) Bearing() float64 {
	return ac.velocity.Heading()
}

// ManualBearing returns the bearing a manually controlled aircraft is
// turning to, if any.
func (ac *Aircraft) ManualBearing() (float64, bool) {
	return ac.manualBearing, ac.manual && ac.hasManualBearing
}
