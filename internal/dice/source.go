package dice

import "math/rand/v2"

// Source abstracts random number generation so rolls can be scripted in tests.
type Source interface {
	// IntN returns a random int in [0, n).
	IntN(n int) int
}

// NewSeededSource returns a deterministic PCG source. The same seed always
// produces the same roll sequence.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// globalSource delegates to math/rand/v2's auto-seeded generator.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// NewRandomSource returns a non-deterministic source.
func NewRandomSource() Source { return globalSource{} }
