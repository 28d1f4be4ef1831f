// Package random provides the injectable randomness used by the scenario
// generators.
package random

import (
	"math/rand/v2"
	"time"
)

// Source is the capability generators draw from. Tests inject a seeded
// source so every draw is reproducible.
type Source interface {
	// IntN returns a uniform integer in [0, n). It panics if n <= 0.
	IntN(n int) int

	// Float64 returns a uniform float in [0.0, 1.0).
	Float64() float64
}

// New returns a Source seeded from the wall clock.
func New() Source {
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, now>>17|1))
}

// NewSeeded returns a deterministic Source.
func NewSeeded(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// IntRange returns a uniform integer in [min, max] inclusive.
func IntRange(src Source, min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + src.IntN(max-min+1)
}

// Pick returns a uniformly chosen element. It panics on an empty list.
func Pick[T any](src Source, list []T) T {
	if len(list) == 0 {
		panic("random: Pick from empty list")
	}
	return list[src.IntN(len(list))]
}

// Shuffle returns a new slice holding the elements of list in a
// Fisher-Yates permutation. The input is not modified.
func Shuffle[T any](src Source, list []T) []T {
	out := make([]T, len(list))
	copy(out, list)
	for i := len(out) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Chance reports true with probability one half.
func Chance(src Source) bool {
	return src.Float64() < 0.5
}
