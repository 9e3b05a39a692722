package rand

import (
	"github.com/MichaelTJones/pcg"
)

// Rand is a small seeded PCG generator. Spawning draws everything from one
// of these so a round can be replayed from its seed.
type Rand struct {
	r *pcg.PCG32
}

func Make(seed int64) *Rand {
	r := &Rand{r: pcg.NewPCG32()}
	r.Seed(seed)
	return r
}

func (r *Rand) Seed(s int64) {
	r.r.Seed(uint64(s), 0xda3e39cb94b95bdb)
}

// Intn returns a value in [0, n). n must be positive.
func (r *Rand) Intn(n int) int {
	return int(r.r.Bounded(uint32(n)))
}

func (r *Rand) Float64() float64 {
	return float64(r.r.Random()) / (1 << 32)
}

// Range returns a value in [lo, hi).
func (r *Rand) Range(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

func (r *Rand) Chance(p float64) bool {
	return r.Float64() < p
}

// SampleSlice uniformly randomly samples an element of a non-empty slice.
func SampleSlice[T any](r *Rand, slice []T) T {
	return slice[r.Intn(len(slice))]
}

// SampleFiltered uniformly samples the slice among the items accepted by
// pred, returning the index or -1 if none are.
func SampleFiltered[T any](r *Rand, slice []T, pred func(T) bool) int {
	idx := -1
	candidates := 0
	for i, v := range slice {
		if pred(v) {
			candidates++
			if r.Float64() < 1/float64(candidates) {
				idx = i
			}
		}
	}
	return idx
}
