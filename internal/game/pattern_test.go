package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternsAreWellFormed(t *testing.T) {
	for s := ShapeID(0); s < shapeCount; s++ {
		p := NewPattern(s)
		require.NotEmpty(t, p.Offsets, "shape %d has no cells", s)
		assert.NotZero(t, p.Color, "shape %d has no color", s)
		for _, o := range p.Offsets {
			assert.True(t, o.DX >= 0 && o.DX < p.Width, "shape %d offset %v outside width", s, o)
			assert.True(t, o.DY >= 0 && o.DY < p.Height, "shape %d offset %v outside height", s, o)
		}
	}
}

func TestGridPositionsMapsOffsets(t *testing.T) {
	p := NewPattern(ShapeCornerTL)
	positions, ok := GridPositions(p, position(3, 4), 10)
	require.True(t, ok)
	assert.ElementsMatch(t, []Position{
		{Row: 3, Col: 4},
		{Row: 3, Col: 5},
		{Row: 4, Col: 4},
	}, positions)
}

func TestGridPositionsFailsFast(t *testing.T) {
	p := NewPattern(ShapeBar5H)

	// Anchor is in bounds but the bar runs off the right edge: the whole
	// call fails, no partial result.
	positions, ok := GridPositions(p, position(0, 6), 10)
	assert.False(t, ok)
	assert.Nil(t, positions)

	_, ok = GridPositions(p, position(0, 5), 10)
	assert.True(t, ok)
}

func TestPatternGeneratorDeterministic(t *testing.T) {
	a := NewPatternGenerator(42)
	b := NewPatternGenerator(42)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Next().Shape, b.Next().Shape, "diverged at %d", i)
	}
}

func TestPatternGeneratorBagCoversAllShapes(t *testing.T) {
	pg := NewPatternGenerator(7)
	seen := make(map[ShapeID]bool)
	for i := 0; i < int(shapeCount); i++ {
		seen[pg.Next().Shape] = true
	}
	assert.Len(t, seen, int(shapeCount))
}
