package rand

import (
	"testing"
)

func TestSeedIsDeterministic(t *testing.T) {
	a, b := Make(42), Make(42)
	for i := 0; i < 100; i++ {
		if x, y := a.Intn(1000), b.Intn(1000); x != y {
			t.Fatalf("draw %d: %d != %d", i, x, y)
		}
	}
	c := Make(43)
	same := true
	for i := 0; i < 20; i++ {
		if a.Intn(1<<30) != c.Intn(1<<30) {
			same = false
		}
	}
	if same {
		t.Errorf("different seeds produced the same sequence")
	}
}

func TestRanges(t *testing.T) {
	r := Make(1)
	for i := 0; i < 1000; i++ {
		if v := r.Intn(7); v < 0 || v >= 7 {
			t.Fatalf("Intn out of range: %d", v)
		}
		if f := r.Float64(); f < 0 || f >= 1 {
			t.Fatalf("Float64 out of range: %f", f)
		}
		if f := r.Range(30, 45); f < 30 || f >= 45 {
			t.Fatalf("Range out of range: %f", f)
		}
	}
	if r.Chance(0) {
		t.Errorf("Chance(0) returned true")
	}
}

func TestSampleFiltered(t *testing.T) {
	r := Make(7)
	if SampleFiltered(r, []int{}, func(int) bool { return true }) != -1 {
		t.Errorf("Returned non-negative for empty slice")
	}
	if SampleFiltered(r, []int{0, 1, 2, 3, 4}, func(int) bool { return false }) != -1 {
		t.Errorf("Returned non-negative for fully filtered")
	}
	if idx := SampleFiltered(r, []int{0, 1, 2, 3, 4}, func(v int) bool { return v == 3 }); idx != 3 {
		t.Errorf("expected index 3, got %d", idx)
	}

	counts := make([]int, 5)
	for i := 0; i < 5000; i++ {
		idx := SampleFiltered(r, []int{0, 1, 2, 3, 4}, func(v int) bool { return v%2 == 0 })
		counts[idx]++
	}
	if counts[1] != 0 || counts[3] != 0 {
		t.Errorf("sampled filtered items: %v", counts)
	}
	for _, i := range []int{0, 2, 4} {
		if counts[i] < 1000 {
			t.Errorf("item %d undersampled: %v", i, counts)
		}
	}
}

func TestSampleSlice(t *testing.T) {
	r := Make(3)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		seen[SampleSlice(r, []string{"a", "b", "c"})] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected every element sampled, got %v", seen)
	}
}
