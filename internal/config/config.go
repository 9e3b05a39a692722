package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/labstack/gommon/log"

	"github.com/a-random-oracle/Fly-Hard-sub000/internal/game/aircraft"
)

// Config represents the main application configuration structure
type Config struct {
	Simulation SimulationConfig `toml:"simulation"` // Round and difficulty settings
	Spawn      SpawnConfig      `toml:"spawn"`      // Aircraft spawner settings
	Logging    LoggingConfig    `toml:"logging"`    // Application logging settings
	Airspace   AirspaceConfig   `toml:"airspace"`   // Waypoint and airport layout
}

type SimulationConfig struct {
	Difficulty   string  `toml:"difficulty"`    // "easy", "medium" or "hard"
	TickRate     float64 `toml:"tick_rate"`     // Ticks per second
	Players      int     `toml:"players"`       // Number of independently controlled zones
	Seed         int64   `toml:"seed"`          // Spawner seed (0 = time based)
	RoundSeconds float64 `toml:"round_seconds"` // Headless round length (0 = until collision)
}

type SpawnConfig struct {
	IntervalSeconds float64 `toml:"interval_seconds"`  // Time between spawns per player
	MaxAircraft     int     `toml:"max_aircraft"`      // Active aircraft cap per player
	SpeedMin        float64 `toml:"speed_min"`         // Base speed range before the difficulty multiplier
	SpeedMax        float64 `toml:"speed_max"`
	MaxRouteRetries int     `toml:"max_route_retries"` // Origin/destination pairs to try before giving up a spawn
	DepartureChance float64 `toml:"departure_chance"`  // Probability a spawn is a hangar departure (0-1)
}

type LoggingConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error" or "off"
}

type AirspaceConfig struct {
	Width     float64          `toml:"width"`
	Height    float64          `toml:"height"`
	Waypoints []WaypointConfig `toml:"waypoints"`
	Airports  []AirportConfig  `toml:"airports"`
}

type WaypointConfig struct {
	Name     string  `toml:"name"`
	X        float64 `toml:"x"`
	Y        float64 `toml:"y"`
	Boundary bool    `toml:"boundary"` // Entry/exit point on the airspace edge
}

type AirportConfig struct {
	Name     string  `toml:"name"`
	X        float64 `toml:"x"`
	Y        float64 `toml:"y"`
	ZoneSize float64 `toml:"zone_size"` // Side of the square arrivals/departures zone
	Owner    int     `toml:"owner"`     // Controlling player index
}

// Default returns the built-in configuration: a single player on MEDIUM in a
// 1024x768 airspace.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Difficulty: "medium",
			TickRate:   60,
			Players:    1,
		},
		Spawn: SpawnConfig{
			IntervalSeconds: 20,
			MaxAircraft:     5,
			SpeedMin:        30,
			SpeedMax:        45,
			MaxRouteRetries: 8,
			DepartureChance: 0.25,
		},
		Logging: LoggingConfig{Level: "info"},
		Airspace: AirspaceConfig{
			Width:  1024,
			Height: 768,
			Waypoints: []WaypointConfig{
				{Name: "APIPO", X: 0, Y: 110, Boundary: true},
				{Name: "BISKET", X: 650, Y: 0, Boundary: true},
				{Name: "EMETI", X: 260, Y: 768, Boundary: true},
				{Name: "FILKA", X: 1024, Y: 500, Boundary: true},
				{Name: "CIPKA", X: 380, Y: 410},
				{Name: "DELOS", X: 160, Y: 300},
				{Name: "KODAP", X: 690, Y: 180},
				{Name: "MOXON", X: 560, Y: 620},
				{Name: "TALIS", X: 840, Y: 360},
				{Name: "VEXUN", X: 250, Y: 560},
			},
			Airports: []AirportConfig{
				{Name: "LHR", X: 600, Y: 400, ZoneSize: 120, Owner: 0},
			},
		},
	}
}

// Load reads a TOML file over the defaults.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	config := Default()
	// Layout lists replace rather than merge with the defaults.
	config.Airspace.Waypoints = nil
	config.Airspace.Airports = nil
	md, err := toml.DecodeFile(path, config)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}
	if !md.IsDefined("airspace", "waypoints") {
		config.Airspace.Waypoints = Default().Airspace.Waypoints
	}
	if !md.IsDefined("airspace", "airports") {
		config.Airspace.Airports = Default().Airspace.Airports
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		log.Warnf("config %s: ignoring unknown keys %v", path, undecoded)
	}
	return config, nil
}

// LoadWithFallback tries preferredPath, then the standard locations, and
// finally the built-in defaults.
func LoadWithFallback(preferredPath string) (*Config, error) {
	searchPaths := []string{
		preferredPath,
		"configs/fly-hard.toml",
		"fly-hard.toml",
	}

	for _, path := range searchPaths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			config, err := Load(path)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
			return config, nil
		} else if path == preferredPath {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
	}

	log.Infof("no config file found, using defaults")
	return Default(), nil
}

func (c *Config) Validate() error {
	if _, err := aircraft.ParseDifficulty(c.Simulation.Difficulty); err != nil {
		return fmt.Errorf("invalid simulation difficulty: %w", err)
	}
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("invalid tick rate: %f (must be > 0)", c.Simulation.TickRate)
	}
	if c.Simulation.Players < 1 {
		return fmt.Errorf("invalid player count: %d (must be >= 1)", c.Simulation.Players)
	}
	if c.Simulation.RoundSeconds < 0 {
		return fmt.Errorf("invalid round length: %f", c.Simulation.RoundSeconds)
	}

	if c.Spawn.IntervalSeconds <= 0 {
		return fmt.Errorf("invalid spawn interval: %f (must be > 0)", c.Spawn.IntervalSeconds)
	}
	if c.Spawn.MaxAircraft < 1 {
		return fmt.Errorf("invalid max_aircraft: %d (must be >= 1)", c.Spawn.MaxAircraft)
	}
	if c.Spawn.SpeedMin <= 0 || c.Spawn.SpeedMax < c.Spawn.SpeedMin {
		return fmt.Errorf("invalid speed range: [%f, %f]", c.Spawn.SpeedMin, c.Spawn.SpeedMax)
	}
	if c.Spawn.MaxRouteRetries < 1 {
		return fmt.Errorf("invalid max_route_retries: %d (must be >= 1)", c.Spawn.MaxRouteRetries)
	}
	if c.Spawn.DepartureChance < 0 || c.Spawn.DepartureChance > 1 {
		return fmt.Errorf("invalid departure_chance: %f (must be in [0, 1])", c.Spawn.DepartureChance)
	}

	if _, err := c.Logging.Lvl(); err != nil {
		return err
	}

	return c.ValidateAirspace()
}

func (c *Config) ValidateAirspace() error {
	a := c.Airspace
	if a.Width <= 0 || a.Height <= 0 {
		return fmt.Errorf("invalid airspace size: %fx%f", a.Width, a.Height)
	}

	names := make(map[string]bool)
	boundary := 0
	for _, wp := range a.Waypoints {
		if wp.Name == "" {
			return fmt.Errorf("waypoint at (%f, %f) has no name", wp.X, wp.Y)
		}
		if names[wp.Name] {
			return fmt.Errorf("duplicate waypoint name: %s", wp.Name)
		}
		names[wp.Name] = true
		if wp.Boundary {
			boundary++
		}
	}
	if boundary < 2 {
		return fmt.Errorf("airspace needs at least 2 boundary waypoints, has %d", boundary)
	}

	for _, ap := range a.Airports {
		if ap.Name == "" || names[ap.Name] {
			return fmt.Errorf("invalid or duplicate airport name: %q", ap.Name)
		}
		names[ap.Name] = true
		if ap.ZoneSize <= 0 {
			return fmt.Errorf("airport %s: invalid zone_size %f", ap.Name, ap.ZoneSize)
		}
		if ap.Owner < 0 || ap.Owner >= c.Simulation.Players {
			return fmt.Errorf("airport %s: owner %d is not a valid player", ap.Name, ap.Owner)
		}
	}
	return nil
}

// Lvl maps the configured level name to a gommon log level.
func (l LoggingConfig) Lvl() (log.Lvl, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return log.DEBUG, nil
	case "", "info":
		return log.INFO, nil
	case "warn":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "off":
		return log.OFF, nil
	default:
		return 0, fmt.Errorf("invalid log level: %q", l.Level)
	}
}

// Difficulty returns the parsed difficulty. Validate must have succeeded.
func (c *Config) Difficulty() aircraft.Difficulty {
	d, _ := aircraft.ParseDifficulty(c.Simulation.Difficulty)
	return d
}
