package tetris

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorIsDeterministicForASeed(t *testing.T) {
	a := NewGenerator(rand.NewSource(42))
	b := NewGenerator(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		require.Equal(t, a.Next(), b.Next(), "draw %d", i)
	}
}

func TestGeneratorDrawsEveryKind(t *testing.T) {
	g := NewSeededGenerator(7)
	seen := map[Kind]int{}
	for i := 0; i < 1000; i++ {
		k := g.Next()
		require.Less(t, int(k), len(Kinds))
		seen[k]++
	}

	assert.Len(t, seen, len(Kinds))
}

func TestSequenceWraps(t *testing.T) {
	s := NewSequence(O, T)

	got := []Kind{s.Next(), s.Next(), s.Next()}
	assert.Equal(t, []Kind{O, T, O}, got)
}

func TestEmptySequenceYieldsI(t *testing.T) {
	assert.Equal(t, I, NewSequence().Next())
}

func TestParseSequence(t *testing.T) {
	s, err := ParseSequence("IOTSZJL")
	require.NoError(t, err)
	for _, want := range Kinds {
		assert.Equal(t, want, s.Next())
	}

	_, err = ParseSequence("IX")
	assert.Error(t, err)
}

func TestKindText(t *testing.T) {
	for _, k := range Kinds {
		text, err := k.MarshalText()
		require.NoError(t, err)

		var back Kind
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, k, back)
	}

	_, err := Kind(99).MarshalText()
	assert.Error(t, err)
}
