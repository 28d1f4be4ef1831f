package random

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntRange_Inclusive(t *testing.T) {
	src := NewSeeded(1)
	seen := map[int]bool{}
	for range 2000 {
		v := IntRange(src, 3, 7)
		if v < 3 || v > 7 {
			t.Fatalf("IntRange(3, 7) = %d, out of range", v)
		}
		seen[v] = true
	}
	for v := 3; v <= 7; v++ {
		assert.True(t, seen[v], "value %d never drawn", v)
	}
}

func TestIntRange_SwappedBounds(t *testing.T) {
	src := NewSeeded(2)
	for range 100 {
		v := IntRange(src, 5, 1)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 5)
	}
}

func TestIntRange_SingleValue(t *testing.T) {
	assert.Equal(t, 4, IntRange(NewSeeded(3), 4, 4))
}

func TestPick(t *testing.T) {
	src := NewSeeded(4)
	list := []string{"a", "b", "c"}
	for range 50 {
		assert.Contains(t, list, Pick(src, list))
	}
}

func TestPick_EmptyPanics(t *testing.T) {
	assert.Panics(t, func() { Pick(NewSeeded(5), []int{}) })
}

func TestShuffle_IsPermutation(t *testing.T) {
	src := NewSeeded(6)
	in := []int{1, 2, 3, 4, 5, 6, 7, 8}
	orig := slices.Clone(in)

	out := Shuffle(src, in)

	assert.Equal(t, orig, in, "input must not be modified")
	sorted := slices.Clone(out)
	slices.Sort(sorted)
	assert.Equal(t, orig, sorted)
}

func TestShuffle_Deterministic(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	a := Shuffle(NewSeeded(42), in)
	b := Shuffle(NewSeeded(42), in)
	assert.Equal(t, a, b)
}

func TestShuffle_Empty(t *testing.T) {
	assert.Empty(t, Shuffle(NewSeeded(7), []int{}))
}

func TestChance_RoughlyEven(t *testing.T) {
	src := NewSeeded(8)
	heads := 0
	const n = 10000
	for range n {
		if Chance(src) {
			heads++
		}
	}
	if heads < n*45/100 || heads > n*55/100 {
		t.Errorf("Chance true %d/%d times, want roughly half", heads, n)
	}
}
