package command

import (
	"errors"
	"math"
	"testing"

	"github.com/labstack/gommon/log"

	"github.com/a-random-oracle/Fly-Hard-sub000/internal/config"
	"github.com/a-random-oracle/Fly-Hard-sub000/internal/game/aircraft"
	"github.com/a-random-oracle/Fly-Hard-sub000/internal/game/simulation"
	"github.com/a-random-oracle/Fly-Hard-sub000/pkg/types"
)

func TestParse(t *testing.T) {
	for _, test := range []struct {
		line     string
		selected types.AircraftID
		want     Command
	}{
		{"m", "AAL100", Command{Kind: MANUAL, Callsign: "AAL100"}},
		{"dal101 manual", "", Command{Kind: MANUAL, Callsign: "DAL101"}},
		{"AAL100 a climb", "", Command{Kind: ALTITUDE, Callsign: "AAL100", Altitude: aircraft.CLIMB}},
		{"D 1 cipka", "UAL102", Command{Kind: DIRECT, Callsign: "UAL102", Stage: 1, Target: "CIPKA"}},
		{"L", "JAL103", Command{Kind: LAND, Callsign: "JAL103"}},
		{"T lhr", "", Command{Kind: TAKEOFF, Target: "LHR"}},
	} {
		got, err := Parse(test.line, test.selected)
		if err != nil {
			t.Errorf("%q: unexpected error %v", test.line, err)
			continue
		}
		if got != test.want {
			t.Errorf("%q: got %+v, want %+v", test.line, got, test.want)
		}
	}

	got, err := Parse("H 90", "AAL100")
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != HEADING || got.Callsign != "AAL100" || math.Abs(got.Bearing) > 1e-9 {
		t.Errorf("H 90: got %+v, want an east bearing", got)
	}
}

func TestParseErrors(t *testing.T) {
	for _, line := range []string{
		"",
		"AAL100",
		"AAL100 X",
		"H 360",
		"H north",
		"A UP",
		"D -1 CIPKA",
		"D 1",
		"L now",
	} {
		if _, err := Parse(line, "AAL100"); err == nil {
			t.Errorf("%q: expected an error", line)
		}
	}
	if _, err := Parse("M", ""); !errors.Is(err, ErrNoSelection) {
		t.Errorf("expected ErrNoSelection, got %v", err)
	}
}

func TestCompassRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 45, 90, 180, 270, 359} {
		got := BearingToCompass(CompassToBearing(deg))
		if d := math.Mod(got-deg+540, 360) - 180; math.Abs(d) > 1e-9 || got < 0 || got >= 360 {
			t.Errorf("%f: round trip gave %f", deg, got)
		}
	}
	if b := CompassToBearing(0); math.Abs(b-math.Pi/2) > 1e-12 {
		t.Errorf("north should be +Y, got %f", b)
	}
}

func TestExecute(t *testing.T) {
	log.SetLevel(log.OFF)
	c := config.Default()
	c.Simulation.Seed = 5
	c.Spawn.DepartureChance = 0
	s, err := simulation.New(c)
	if err != nil {
		t.Fatal(err)
	}
	ac, err := s.Spawn(0)
	if err != nil {
		t.Fatal(err)
	}

	cmd, err := Parse("M", ac.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Execute(s, cmd); err != nil || !ac.IsManuallyControlled() {
		t.Fatalf("manual control: %v", err)
	}

	cmd, _ = Parse(string(ac.ID)+" H 180", "")
	if _, err := Execute(s, cmd); err != nil {
		t.Fatal(err)
	}
	if b, ok := ac.ManualBearing(); !ok || math.Abs(math.Abs(b)-math.Pi/2) > 1e-9 {
		t.Errorf("expected a bearing of -π/2, got %f", b)
	}

	cmd, _ = Parse("T LHR", "")
	if _, err := Execute(s, cmd); !errors.Is(err, simulation.ErrCommandDenied) {
		t.Errorf("expected an empty hangar to be denied, got %v", err)
	}
	cmd, _ = Parse("T LGW", "")
	if _, err := Execute(s, cmd); !errors.Is(err, simulation.ErrUnknownAirport) {
		t.Errorf("expected ErrUnknownAirport, got %v", err)
	}
}
