// Package dprg implements the deterministic pseudo-random generator behind
// the demo data feeds. Identical inputs always produce identical outputs:
// there is no hidden state and no wall-clock dependency in the numeric
// derivation, so dashboards render stable numbers for a given location.
package dprg

import (
	"hash/fnv"
	"math"
)

// Seed derives a non-negative scalar seed from a coordinate pair.
func Seed(lat, lng float64) float64 {
	return math.Abs(math.Sin(lat*lng)) * 10000
}

// SeedString derives a seed from arbitrary text (prompts, issue text).
func SeedString(s string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return float64(h.Sum32() % 10000)
}

// Sequence yields a reproducible stream of values from a seed. Successive
// calls advance an internal counter, so a fresh Sequence over the same seed
// replays the exact same stream.
type Sequence struct {
	seed float64
	n    uint64
}

// New returns a Sequence positioned at the start of the stream for seed.
func New(seed float64) *Sequence {
	return &Sequence{seed: math.Abs(seed)}
}

// Next returns the next value in [0, 1).
func (s *Sequence) Next() float64 {
	s.n++
	x := math.Sin(s.seed + float64(s.n)*12.9898)
	_, frac := math.Modf(math.Abs(x * 43758.5453))
	return frac
}

// NextInt returns the next value in [0, bound). A bound below 1 is treated
// as 1, so a zero seed or degenerate caller input can never divide by zero.
func (s *Sequence) NextInt(bound int) int {
	if bound < 1 {
		bound = 1
	}
	return int(s.Next() * float64(bound))
}

// NextIntIn returns the next value in [min, max]. Swapped bounds are
// normalized.
func (s *Sequence) NextIntIn(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + s.NextInt(max-min+1)
}

// Pick returns a deterministic element of vocab, or "" when vocab is empty.
func (s *Sequence) Pick(vocab []string) string {
	if len(vocab) == 0 {
		return ""
	}
	return vocab[s.NextInt(len(vocab))]
}
