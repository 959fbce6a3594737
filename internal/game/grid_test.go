package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPositionBounds(t *testing.T) {
	_, ok := NewPosition(0, 0, 10)
	assert.True(t, ok)

	_, ok = NewPosition(9, 9, 10)
	assert.True(t, ok)

	for _, rc := range [][2]int{{-1, 0}, {0, -1}, {10, 0}, {0, 10}} {
		_, ok := NewPosition(rc[0], rc[1], 10)
		assert.False(t, ok, "expected (%d,%d) to be rejected", rc[0], rc[1])
	}
}

func TestCellAtDefaultsToEmpty(t *testing.T) {
	g := NewGrid(10)
	for r := 0; r < 10; r++ {
		for c := 0; c < 10; c++ {
			assert.Equal(t, CellEmpty, g.CellAt(position(r, c)).State)
		}
	}
}

func TestPreviewOverlay(t *testing.T) {
	g := NewGrid(10)
	g.setCell(position(2, 2), Cell{State: CellOccupied, Color: 3})

	g.setPreview([]Position{position(1, 1), position(2, 2)}, 5)

	// Preview shows through on empty cells only.
	assert.Equal(t, Cell{State: CellPreview, Color: 5}, g.CellAt(position(1, 1)))
	assert.Equal(t, Cell{State: CellOccupied, Color: 3}, g.CellAt(position(2, 2)))

	// Each overlay write replaces the previous one.
	g.setPreview([]Position{position(4, 4)}, 2)
	assert.Equal(t, CellEmpty, g.CellAt(position(1, 1)).State)
	assert.Equal(t, CellPreview, g.CellAt(position(4, 4)).State)

	g.clearPreview()
	assert.Equal(t, CellEmpty, g.CellAt(position(4, 4)).State)
}

func TestFlatRoundTripKeepsLockedCells(t *testing.T) {
	g := NewGrid(10)
	g.setCell(position(0, 0), Cell{State: CellOccupied, Color: 4})
	g.setCell(position(5, 7), Cell{State: CellLocked, Color: 2})

	got := GridFromFlat(g.ToFlat(), 10)
	require.Equal(t, g.cells, got.cells)
}
