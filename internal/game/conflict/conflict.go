package conflict

import (
	"github.com/a-random-oracle/Fly-Hard-sub000/internal/game/aircraft"
	"github.com/a-random-oracle/Fly-Hard-sub000/pkg/types"

	"github.com/labstack/gommon/log"
)

type Outcome int

const (
	SAFE Outcome = iota
	VIOLATION
	COLLISION
)

// Alerter receives the one-shot warning raised when an aircraft first breaks
// separation. It is not called again until the violation has cleared.
type Alerter interface {
	SeparationWarning(ac *aircraft.Aircraft, peers []*aircraft.Aircraft)
}

type Violation struct {
	Aircraft *aircraft.Aircraft
	Peers    []*aircraft.Aircraft
}

type Collision struct {
	A, B *aircraft.Aircraft
	// Index is B's position in the checked collection.
	Index int
}

// Report is the outcome of one tick's check. Collision is non-nil when the
// round must end.
type Report struct {
	Collision  *Collision
	Violations []Violation
	Warnings   []*aircraft.Aircraft
}

type Detector struct {
	alerter Alerter
}

func NewDetector(alerter Alerter) *Detector {
	return &Detector{alerter: alerter}
}

// Classify compares the 3D distance between two aircraft against the
// collision radius and the smaller of their separation minima.
func Classify(a, b *aircraft.Aircraft) Outcome {
	d := a.Position().DistanceTo(b.Position())
	if d < aircraft.Radius {
		return COLLISION
	}
	if d < min(a.MinimumSeparation(), b.MinimumSeparation()) {
		return VIOLATION
	}
	return SAFE
}

func CheckSeparation(a, b *aircraft.Aircraft) bool {
	return Classify(a, b) != SAFE
}

func apply(a, b *aircraft.Aircraft) Outcome {
	o := Classify(a, b)
	switch o {
	case COLLISION:
		a.MarkCollided()
		b.MarkCollided()
	case VIOLATION:
		a.AddViolation(b)
		b.AddViolation(a)
	}
	return o
}

// Check runs the pairwise scan over every active aircraft. Violation sets
// are rebuilt from scratch; each aircraft in violation loses a small amount
// of score.
func (d *Detector) Check(fleet []*aircraft.Aircraft) Report {
	var r Report
	for _, ac := range fleet {
		ac.ClearViolations()
	}

	for i, a := range fleet {
		if a.IsFinished() {
			continue
		}
		for j := i + 1; j < len(fleet); j++ {
			b := fleet[j]
			if b.IsFinished() {
				continue
			}
			if apply(a, b) == COLLISION && r.Collision == nil {
				log.Warnf("COLLISION: %s and %s", a.ID, b.ID)
				r.Collision = &Collision{A: a, B: b, Index: j}
			}
			if a.IsFinished() {
				break
			}
		}
	}

	for _, ac := range fleet {
		ac.DropFinishedViolations()
		peers := ac.Violations()
		if len(peers) > 0 && !ac.IsFinished() {
			ac.DecrementScoreSmall()
			r.Violations = append(r.Violations, Violation{Aircraft: ac, Peers: peers})
		}
		if ac.CommitViolations() {
			log.Infof("SEPARATION: %s within minimum separation of %d aircraft", ac.ID, len(peers))
			r.Warnings = append(r.Warnings, ac)
			if d.alerter != nil {
				d.alerter.SeparationWarning(ac, peers)
			}
		}
	}
	return r
}

// UpdateCollisions checks a single aircraft against the rest of the fleet,
// recording violations on both sides. It returns the index of the first
// aircraft it hard-collided with, or -1.
func UpdateCollisions(ac *aircraft.Aircraft, fleet []*aircraft.Aircraft) int {
	if ac.IsFinished() {
		return -1
	}
	for i, other := range fleet {
		if other == ac || other.IsFinished() {
			continue
		}
		if apply(ac, other) == COLLISION {
			return i
		}
	}
	return -1
}

// PredictConflict projects both aircraft along their current velocity and
// vertical rate for the given number of seconds and reports whether they
// would then be within separation, along with the projected positions.
func PredictConflict(a, b *aircraft.Aircraft, seconds float64) (bool, types.Vec3, types.Vec3) {
	project := func(ac *aircraft.Aircraft) types.Vec3 {
		p := ac.Position().Add(ac.Velocity().ScaleBy(seconds))
		p.Z += ac.VerticalRate() * seconds
		return p
	}
	pa, pb := project(a), project(b)
	if pa.DistanceTo(pb) < min(a.MinimumSeparation(), b.MinimumSeparation()) {
		return true, pa, pb
	}
	return false, types.Vec3{}, types.Vec3{}
}
