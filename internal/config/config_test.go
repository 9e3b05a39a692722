package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/gommon/log"

	"github.com/a-random-oracle/Fly-Hard-sub000/internal/game/aircraft"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fly-hard.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if c.Difficulty() != aircraft.MEDIUM {
		t.Errorf("expected MEDIUM default, got %s", c.Difficulty())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[simulation]
difficulty = "hard"
players = 2

[spawn]
max_aircraft = 3

[logging]
level = "debug"

[[airspace.airports]]
name = "LGW"
x = 300
y = 300
zone_size = 80
owner = 1
`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.Difficulty() != aircraft.HARD || c.Simulation.Players != 2 || c.Spawn.MaxAircraft != 3 {
		t.Errorf("overrides not applied: %+v", c.Simulation)
	}
	if c.Simulation.TickRate != 60 || c.Spawn.IntervalSeconds != 20 {
		t.Errorf("defaults lost: %+v %+v", c.Simulation, c.Spawn)
	}
	if len(c.Airspace.Airports) != 1 || c.Airspace.Airports[0].Name != "LGW" {
		t.Errorf("expected airports to be replaced, got %+v", c.Airspace.Airports)
	}
	if len(c.Airspace.Waypoints) != len(Default().Airspace.Waypoints) {
		t.Errorf("expected default waypoints to be kept")
	}
	if lvl, _ := c.Logging.Lvl(); lvl != log.DEBUG {
		t.Errorf("expected DEBUG level, got %v", lvl)
	}
}

func TestValidateRejects(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"difficulty":   func(c *Config) { c.Simulation.Difficulty = "impossible" },
		"tick rate":    func(c *Config) { c.Simulation.TickRate = 0 },
		"players":      func(c *Config) { c.Simulation.Players = 0 },
		"speed range":  func(c *Config) { c.Spawn.SpeedMax = c.Spawn.SpeedMin - 1 },
		"departures":   func(c *Config) { c.Spawn.DepartureChance = 1.5 },
		"log level":    func(c *Config) { c.Logging.Level = "loud" },
		"dup waypoint": func(c *Config) { c.Airspace.Waypoints = append(c.Airspace.Waypoints, c.Airspace.Waypoints[0]) },
		"no boundary": func(c *Config) {
			var wps []WaypointConfig
			for _, wp := range c.Airspace.Waypoints {
				if !wp.Boundary {
					wps = append(wps, wp)
				}
			}
			c.Airspace.Waypoints = wps
		},
		"airport owner": func(c *Config) { c.Airspace.Airports[0].Owner = 3 },
	} {
		c := Default()
		mutate(c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestValidateDifficultyError(t *testing.T) {
	c := Default()
	c.Simulation.Difficulty = "extreme"
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "difficulty") {
		t.Errorf("expected a difficulty error, got %v", err)
	}
}

func TestLoadWithFallback(t *testing.T) {
	if _, err := LoadWithFallback(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("expected an error for a missing explicit path")
	}

	c, err := LoadWithFallback("")
	if err != nil {
		t.Fatal(err)
	}
	if c.Simulation.Players != 1 {
		t.Errorf("expected defaults, got %+v", c.Simulation)
	}

	path := writeConfig(t, "[simulation]\ndifficulty = \"easy\"\n")
	c, err = LoadWithFallback(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Difficulty() != aircraft.EASY {
		t.Errorf("expected EASY, got %s", c.Difficulty())
	}
}

func TestLoadBadToml(t *testing.T) {
	path := writeConfig(t, "[simulation\ndifficulty = ")
	if _, err := Load(path); err == nil {
		t.Errorf("expected decode error")
	}
}
