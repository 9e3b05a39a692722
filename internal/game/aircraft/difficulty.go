package aircraft

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidDifficulty = errors.New("invalid difficulty")

type Difficulty int

const (
	EASY Difficulty = iota
	MEDIUM
	HARD
)

var DifficultyStringMap = map[Difficulty]string{
	EASY:   "EASY",
	MEDIUM: "MEDIUM",
	HARD:   "HARD",
}

func (d Difficulty) String() string {
	if s, ok := DifficultyStringMap[d]; ok {
		return s
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

func ParseDifficulty(s string) (Difficulty, error) {
	for d, name := range DifficultyStringMap {
		if strings.EqualFold(s, name) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrInvalidDifficulty)
}

// Params are the per-aircraft flight characteristics selected by difficulty.
// Harder settings fly faster and need a larger separation buffer.
type Params struct {
	MinimumSeparation  float64
	VelocityMultiplier float64
	TurnSpeed          float64 // radians per second
	VerticalVelocity   float64 // altitude units per second
}

func ParamsFor(d Difficulty) (Params, error) {
	switch d {
	case EASY:
		return Params{
			MinimumSeparation:  64,
			VelocityMultiplier: 1,
			TurnSpeed:          math.Pi / 4,
			VerticalVelocity:   500,
		}, nil
	case MEDIUM:
		return Params{
			MinimumSeparation:  96,
			VelocityMultiplier: 2,
			TurnSpeed:          math.Pi / 3,
			VerticalVelocity:   300,
		}, nil
	case HARD:
		return Params{
			MinimumSeparation:  128,
			VelocityMultiplier: 3,
			TurnSpeed:          math.Pi / 2,
			VerticalVelocity:   200,
		}, nil
	default:
		return Params{}, fmt.Errorf("%s: %w", d, ErrInvalidDifficulty)
	}
}
