package types

import (
	"math"
	"testing"
)

func TestWaypointCostSymmetric(t *testing.T) {
	wps := []*Waypoint{
		NewWaypoint("A", 0, 0, true),
		NewWaypoint("B", 100, 100, true),
		NewWaypoint("C", 37.5, -12, false),
		NewWaypoint("D", -400, 250, false),
	}
	for _, a := range wps {
		for _, b := range wps {
			if a.Cost(b) != b.Cost(a) {
				t.Errorf("cost(%s,%s)=%f != cost(%s,%s)=%f", a.Name, b.Name, a.Cost(b), b.Name, a.Name, b.Cost(a))
			}
		}
	}
	if c := wps[0].Cost(wps[1]); math.Abs(c-math.Sqrt(2)*100) > 1e-9 {
		t.Errorf("expected cost %f, got %f", math.Sqrt(2)*100, c)
	}
}

func TestNormaliseZeroVector(t *testing.T) {
	v, ok := Vec3{}.Normalise()
	if ok {
		t.Fatalf("expected zero vector to fail normalisation")
	}
	if v != (Vec3{}) {
		t.Errorf("expected zero vector back, got %v", v)
	}

	u, ok := NewVec3(3, 4, 0).Normalise()
	if !ok {
		t.Fatalf("expected normalisation to succeed")
	}
	if math.Abs(u.Magnitude()-1) > 1e-12 {
		t.Errorf("expected unit magnitude, got %f", u.Magnitude())
	}
	if math.IsNaN(Vec3{}.AngleBetween(u)) {
		t.Errorf("AngleBetween with a zero vector returned NaN")
	}
}

func TestVectorArithmetic(t *testing.T) {
	a, b := NewVec3(1, 2, 3), NewVec3(4, 5, 6)
	if got := a.Add(b); got != NewVec3(5, 7, 9) {
		t.Errorf("Add: got %v", got)
	}
	if got := b.Sub(a); got != NewVec3(3, 3, 3) {
		t.Errorf("Sub: got %v", got)
	}
	if got := a.ScaleBy(2); got != NewVec3(2, 4, 6) {
		t.Errorf("ScaleBy: got %v", got)
	}
	if a != NewVec3(1, 2, 3) {
		t.Errorf("operations mutated their receiver: %v", a)
	}
	if got := NewVec3(1, 0, 0).AngleBetween(NewVec3(0, 1, 0)); math.Abs(got-math.Pi/2) > 1e-12 {
		t.Errorf("AngleBetween: got %f", got)
	}
}

func TestNormalizeAngle(t *testing.T) {
	for _, test := range []struct {
		in, out float64
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{4*math.Pi + 1, 1},
	} {
		if got := NormalizeAngle(test.in); math.Abs(got-test.out) > 1e-9 {
			t.Errorf("NormalizeAngle(%f): expected %f, got %f", test.in, test.out, got)
		}
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	if !r.Contains(NewVec3(10, 20, 28000)) || !r.Contains(NewVec3(40, 60, 0)) {
		t.Errorf("expected corners to be inside")
	}
	if r.Contains(NewVec3(9.9, 30, 0)) || r.Contains(NewVec3(20, 60.1, 0)) {
		t.Errorf("expected points outside the rectangle to be rejected")
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1.5, 0, 3) != 0 || Clamp(2.5, 0, 3) != 2.5 {
		t.Errorf("Clamp returned an unexpected value")
	}
}
