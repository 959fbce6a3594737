package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlem/gridlock/internal/game"
)

func TestBoardGeometryMapsCorners(t *testing.T) {
	geom := boardGeometry()

	anchor, ok := geom.AnchorAt(game.Point{X: geom.OriginX, Y: geom.OriginY}, game.DefaultGridSize)
	require.True(t, ok)
	assert.Equal(t, game.Position{Row: 0, Col: 0}, anchor)

	// Bottom-right screen cell of the board.
	anchor, ok = geom.AnchorAt(game.Point{
		X: geom.OriginX + (game.DefaultGridSize-1)*cellW + 1,
		Y: geom.OriginY + (game.DefaultGridSize-1)*cellH,
	}, game.DefaultGridSize)
	require.True(t, ok)
	assert.Equal(t, game.Position{Row: 9, Col: 9}, anchor)

	// One column past the board border.
	_, ok = geom.AnchorAt(game.Point{
		X: geom.OriginX + game.DefaultGridSize*cellW,
		Y: geom.OriginY,
	}, game.DefaultGridSize)
	assert.False(t, ok)
}

func TestSlotHitTesting(t *testing.T) {
	for i := 0; i < 3; i++ {
		o := slotOrigin(i)

		slot, origin, ok := slotAt(o.X, o.Y, 3)
		require.True(t, ok, "slot %d origin missed", i)
		assert.Equal(t, i, slot)
		assert.Equal(t, o, origin)

		// Bottom-right corner of the slot's pattern area.
		slot, _, ok = slotAt(o.X+traySlotCells*cellW-1, o.Y+traySlotCells*cellH-1, 3)
		require.True(t, ok)
		assert.Equal(t, i, slot)
	}

	// Between the board and the tray.
	_, _, ok := slotAt(0, trayTop-1, 3)
	assert.False(t, ok)
}
