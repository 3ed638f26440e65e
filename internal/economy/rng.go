package economy

import "math/rand/v2"

// RandomSource supplies the randomness used by the pricing and event engines.
type RandomSource interface {
	Float64() float64 // [0, 1)
	IntN(n int) int   // [0, n)
}

type globalRNG struct{}

func (globalRNG) Float64() float64 { return rand.Float64() }
func (globalRNG) IntN(n int) int   { return rand.IntN(n) }

// DefaultRNG returns a source backed by the process-wide generator.
func DefaultRNG() RandomSource { return globalRNG{} }

// NewSeededRNG returns a reproducible source.
func NewSeededRNG(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, 0))
}
