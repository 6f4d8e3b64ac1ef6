package simulation

import (
	"fmt"
	"math/rand/v2"
)

// Weight bounds in kilograms, inclusive.
const (
	DefaultMinWeight = 1
	DefaultMaxWeight = 10
)

// WeightSource supplies the weight of each new object.
type WeightSource interface {
	Next() float64
}

// RandomWeights draws integer kilograms uniformly from an inclusive range.
type RandomWeights struct {
	lo, hi int
	rng    *rand.Rand
}

// NewRandomWeights returns a weight source over [lo, hi]. A zero seed
// draws from a randomly seeded generator; any other seed is reproducible.
func NewRandomWeights(lo, hi int, seed uint64) (*RandomWeights, error) {
	if lo <= 0 || hi < lo {
		return nil, fmt.Errorf("invalid weight range [%d, %d]", lo, hi)
	}
	var src rand.Source
	if seed == 0 {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	} else {
		src = rand.NewPCG(seed, seed)
	}
	return &RandomWeights{lo: lo, hi: hi, rng: rand.New(src)}, nil
}

// Next returns a weight in the configured range.
func (w *RandomWeights) Next() float64 {
	return float64(w.lo + w.rng.IntN(w.hi-w.lo+1))
}

// Range returns the inclusive bounds.
func (w *RandomWeights) Range() (lo, hi int) { return w.lo, w.hi }

// FixedWeight always returns the same weight.
type FixedWeight float64

// Next returns the fixed weight.
func (f FixedWeight) Next() float64 { return float64(f) }
