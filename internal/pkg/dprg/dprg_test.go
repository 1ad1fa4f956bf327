package dprg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_Deterministic(t *testing.T) {
	assert.Equal(t, Seed(40.7128, -74.0060), Seed(40.7128, -74.0060))
	assert.GreaterOrEqual(t, Seed(40.7128, -74.0060), 0.0)
	assert.Less(t, Seed(40.7128, -74.0060), 10000.0)
}

func TestSeedString_Deterministic(t *testing.T) {
	assert.Equal(t, SeedString("pothole on main st"), SeedString("pothole on main st"))
	assert.NotEqual(t, SeedString("a"), SeedString("b"))
}

func TestSequence_ReplaysSameStream(t *testing.T) {
	a := New(Seed(51.5074, -0.1278))
	b := New(Seed(51.5074, -0.1278))
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Next(), b.Next(), "stream diverged at index %d", i)
	}
}

func TestSequence_NextBounds(t *testing.T) {
	s := New(1234.5)
	for i := 0; i < 1000; i++ {
		v := s.Next()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestNextInt_ZeroSeedDoesNotPanic(t *testing.T) {
	s := New(0)
	for i := 0; i < 100; i++ {
		v := s.NextInt(10)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 10)
	}
}

func TestNextInt_BoundClampedToOne(t *testing.T) {
	s := New(42)
	assert.Equal(t, 0, s.NextInt(0))
	assert.Equal(t, 0, s.NextInt(-5))
}

func TestNextIntIn_RangeAndSwappedBounds(t *testing.T) {
	s := New(7)
	for i := 0; i < 100; i++ {
		v := s.NextIntIn(5, 15)
		require.GreaterOrEqual(t, v, 5)
		require.LessOrEqual(t, v, 15)
	}
	v := s.NextIntIn(15, 5)
	assert.GreaterOrEqual(t, v, 5)
	assert.LessOrEqual(t, v, 15)
}

func TestPick_EmptyVocab(t *testing.T) {
	s := New(9)
	assert.Equal(t, "", s.Pick(nil))
}

func TestPick_Deterministic(t *testing.T) {
	vocab := []string{"roads", "lighting", "parks", "waste"}
	a := New(321).Pick(vocab)
	b := New(321).Pick(vocab)
	assert.Equal(t, a, b)
	assert.Contains(t, vocab, a)
}
