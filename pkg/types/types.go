package types

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

type AircraftID string

// Vec3 is a position or displacement. Z carries altitude for positions and
// is zero for horizontal velocities.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

func NewVec3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) ScaleBy(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) MagnitudeSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Magnitude() float64 {
	return math.Sqrt(v.MagnitudeSquared())
}

// Normalise returns the unit vector in the direction of v. The second result
// is false for a zero-length vector, in which case v is returned unchanged.
func (v Vec3) Normalise() (Vec3, bool) {
	m := v.Magnitude()
	if m == 0 {
		return v, false
	}
	return v.ScaleBy(1 / m), true
}

// AngleBetween returns the unsigned angle in radians between v and o, or 0
// if either is zero-length.
func (v Vec3) AngleBetween(o Vec3) float64 {
	m := v.Magnitude() * o.Magnitude()
	if m == 0 {
		return 0
	}
	dot := v.X*o.X + v.Y*o.Y + v.Z*o.Z
	return math.Acos(Clamp(dot/m, -1, 1))
}

// Horizontal drops the Z component.
func (v Vec3) Horizontal() Vec3 {
	return Vec3{v.X, v.Y, 0}
}

// Heading is the direction of the horizontal component, in radians in
// (-π, π], measured from +X toward +Y.
func (v Vec3) Heading() float64 {
	return math.Atan2(v.Y, v.X)
}

// Rotate turns the horizontal component by angle radians, leaving Z alone.
func (v Vec3) Rotate(angle float64) Vec3 {
	s, c := math.Sincos(angle)
	return Vec3{v.X*c - v.Y*s, v.X*s + v.Y*c, v.Z}
}

// HorizontalDistanceSquared ignores altitude.
func (v Vec3) HorizontalDistanceSquared(o Vec3) float64 {
	dx, dy := v.X-o.X, v.Y-o.Y
	return dx*dx + dy*dy
}

func (v1 Vec3) DistanceTo(v2 Vec3) float64 {
	return v1.Sub(v2).Magnitude()
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f)", v.X, v.Y, v.Z)
}

// Rect is an axis-aligned zone in the horizontal plane.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) Contains(p Vec3) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

type Waypoint struct {
	Name     string
	Location Vec3
	// Boundary waypoints mark airspace entry and exit. A route may only
	// end at one, never pass through it.
	Boundary bool
}

func NewWaypoint(name string, x, y float64, boundary bool) *Waypoint {
	return &Waypoint{Name: name, Location: NewVec3(x, y, 0), Boundary: boundary}
}

// Cost is the Euclidean distance between the two waypoints.
func (w *Waypoint) Cost(from *Waypoint) float64 {
	return w.Location.DistanceTo(from.Location)
}

func (w *Waypoint) SameLocation(o *Waypoint) bool {
	return w.Location == o.Location
}

func Clamp[T constraints.Integer | constraints.Float](x, low, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

// NormalizeAngle wraps a radians value into [-π, π].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
