package main

import (
	"flag"

	"github.com/a-random-oracle/Fly-Hard-sub000/internal/config"
	"github.com/a-random-oracle/Fly-Hard-sub000/internal/game/simulation"

	"github.com/labstack/gommon/log"
)

// headless runs rounds without a window. With -tower, arrivals are cleared
// to land as soon as they reach the arrivals zone and departures are released
// whenever the runway is free; otherwise they hold.
func main() {
	configPath := flag.String("config", "", "path to a TOML configuration file")
	rounds := flag.Int("rounds", 1, "number of rounds to run")
	tower := flag.Bool("tower", true, "clear landings and takeoffs automatically")
	flag.Parse()

	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	lvl, _ := cfg.Logging.Lvl()
	log.SetLevel(lvl)

	if cfg.Simulation.RoundSeconds == 0 {
		log.Warnf("round_seconds is 0, rounds only end on a collision")
	}

	for i := 0; i < *rounds; i++ {
		sim, err := simulation.New(cfg)
		if err != nil {
			log.Fatal(err)
		}
		runRound(sim, cfg.Simulation.RoundSeconds, *tower)

		snap := sim.Snapshot()
		log.Infof("round %d finished after %.1fs, %d separation warnings", i+1, snap.Time, sim.Conflicts)
		if snap.RoundOver {
			log.Infof("round %d: %s collided with %s", i+1, snap.Collided[0], snap.Collided[1])
		}
		for _, p := range snap.Players {
			log.Infof("round %d: player %d scored %d (%d handoffs, %d landings, %d missed)",
				i+1, p.Index+1, p.TotalScore, p.HandOffs, p.Landings, p.MissedHandoffs)
		}

		if cfg.Simulation.Seed != 0 {
			cfg.Simulation.Seed++
		}
	}
}

func runRound(sim *simulation.Simulation, seconds float64, tower bool) {
	dt := 1.0 / sim.TickRate
	for seconds == 0 || sim.GameTimeSeconds < seconds {
		if tower {
			clearTraffic(sim)
		}
		sim.Update(dt)
		if _, over := sim.RoundOver(); over {
			return
		}
	}
}

func clearTraffic(sim *simulation.Simulation) {
	for _, ac := range sim.AllAircraft() {
		if ac.IsWaitingToLand() && ac.FlightPlan().DestinationAirport.IsWithinArrivals(ac.Position()) {
			if err := sim.Land(ac.ID); err != nil {
				log.Debugf("tower: %v", err)
			}
		}
	}
	for _, ap := range sim.Airspace.AirportList() {
		if ap.HangarCount() > 0 && !ap.IsActive() {
			if _, err := sim.TakeOff(ap.Name, ap.Location); err != nil {
				log.Debugf("tower: %v", err)
			}
		}
	}
}
