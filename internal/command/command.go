package command

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/a-random-oracle/Fly-Hard-sub000/internal/game/aircraft"
	"github.com/a-random-oracle/Fly-Hard-sub000/internal/game/simulation"
	"github.com/a-random-oracle/Fly-Hard-sub000/pkg/types"
)

var ErrNoSelection = errors.New("no aircraft selected")

type Kind int

const (
	MANUAL Kind = iota
	HEADING
	ALTITUDE
	DIRECT
	LAND
	TAKEOFF
)

var KindStringMap = map[Kind]string{
	MANUAL:   "MANUAL",
	HEADING:  "HEADING",
	ALTITUDE: "ALTITUDE",
	DIRECT:   "DIRECT",
	LAND:     "LAND",
	TAKEOFF:  "TAKEOFF",
}

var keywords = map[string]Kind{
	"M": MANUAL, "MANUAL": MANUAL,
	"H": HEADING, "HEADING": HEADING,
	"A": ALTITUDE, "ALT": ALTITUDE, "ALTITUDE": ALTITUDE,
	"D": DIRECT, "DIRECT": DIRECT,
	"L": LAND, "LAND": LAND,
	"T": TAKEOFF, "TAKEOFF": TAKEOFF,
}

// Command is one parsed controller instruction.
type Command struct {
	Kind     Kind
	Callsign types.AircraftID

	Bearing  float64 // radians, for HEADING
	Altitude aircraft.AltitudeState
	Stage    int    // for DIRECT
	Target   string // waypoint for DIRECT, airport for TAKEOFF
}

// Parse reads "[<callsign>] <command> [args...]". The callsign defaults to
// selected. Headings are entered as compass degrees and converted to the
// simulation's radians.
//
//	M                   toggle manual control
//	H <0-359>           turn to heading (manual control)
//	A CLIMB|FALL|LEVEL  change altitude
//	D <stage> <fix>     replace the route waypoint at stage
//	L                   land
//	T <airport>         release the next departure
func Parse(line string, selected types.AircraftID) (Command, error) {
	parts := strings.Fields(strings.ToUpper(line))
	if len(parts) == 0 {
		return Command{}, errors.New("empty command")
	}

	var cmd Command
	kind, ok := keywords[parts[0]]
	if ok {
		cmd.Callsign = selected
		parts = parts[1:]
	} else {
		if len(parts) < 2 {
			return Command{}, fmt.Errorf("invalid command format: %q, expected [<callsign>] <command> [args]", line)
		}
		cmd.Callsign = types.AircraftID(parts[0])
		if kind, ok = keywords[parts[1]]; !ok {
			return Command{}, fmt.Errorf("unknown command type: %s", parts[1])
		}
		parts = parts[2:]
	}
	cmd.Kind = kind

	if kind != TAKEOFF && cmd.Callsign == "" {
		return Command{}, ErrNoSelection
	}

	want := map[Kind]int{MANUAL: 0, HEADING: 1, ALTITUDE: 1, DIRECT: 2, LAND: 0, TAKEOFF: 1}[kind]
	if len(parts) != want {
		return Command{}, fmt.Errorf("%s takes %d argument(s), got %d", KindStringMap[kind], want, len(parts))
	}

	switch kind {
	case HEADING:
		heading, err := strconv.ParseFloat(parts[0], 64)
		if err != nil || heading < 0 || heading >= 360 {
			return Command{}, fmt.Errorf("invalid heading value: %s, must be 0-359", parts[0])
		}
		cmd.Bearing = CompassToBearing(heading)
	case ALTITUDE:
		found := false
		for st, name := range aircraft.AltitudeStateStringMap {
			if name == parts[0] {
				cmd.Altitude, found = st, true
			}
		}
		if !found {
			return Command{}, fmt.Errorf("invalid altitude change: %s, must be CLIMB, FALL or LEVEL", parts[0])
		}
	case DIRECT:
		stage, err := strconv.Atoi(parts[0])
		if err != nil || stage < 0 {
			return Command{}, fmt.Errorf("invalid route stage: %s", parts[0])
		}
		cmd.Stage, cmd.Target = stage, parts[1]
	case TAKEOFF:
		cmd.Target = parts[0]
	}
	return cmd, nil
}

// CompassToBearing converts a compass heading in degrees (0 = +Y, 90 = +X)
// to radians measured from +X toward +Y.
func CompassToBearing(deg float64) float64 {
	return types.NormalizeAngle(math.Pi/2 - deg*math.Pi/180)
}

// BearingToCompass is the inverse of CompassToBearing, in [0, 360).
func BearingToCompass(bearing float64) float64 {
	deg := math.Mod(90-bearing*180/math.Pi, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Execute applies cmd to the simulation. It returns the callsign the command
// was applied to, which for TAKEOFF is the departing aircraft.
func Execute(s *simulation.Simulation, cmd Command) (types.AircraftID, error) {
	var err error
	switch cmd.Kind {
	case MANUAL:
		err = s.ToggleManualControl(cmd.Callsign)
	case HEADING:
		err = s.SetBearing(cmd.Callsign, cmd.Bearing)
	case ALTITUDE:
		err = s.SetAltitudeState(cmd.Callsign, cmd.Altitude)
	case DIRECT:
		err = s.AlterPath(cmd.Callsign, cmd.Stage, cmd.Target)
	case LAND:
		err = s.Land(cmd.Callsign)
	case TAKEOFF:
		ap, ok := s.Airspace.Airports[cmd.Target]
		if !ok {
			return "", fmt.Errorf("%s: %w", cmd.Target, simulation.ErrUnknownAirport)
		}
		return s.TakeOff(cmd.Target, ap.Location)
	default:
		err = fmt.Errorf("unknown command kind %d", cmd.Kind)
	}
	return cmd.Callsign, err
}
