package spawn

import (
	"math/rand/v2"
	"time"
)

// RandomSource is the randomness used for spawn decisions.
type RandomSource interface {
	Float64() float64 // [0, 1)
	IntN(n int) int   // [0, n)
}

// NewSeededRNG returns a replicable PCG source. Seed 0 seeds from the clock.
func NewSeededRNG(seed uint64) RandomSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, 0x9e3779b97f4a7c15))
}
