package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(size int) *Engine {
	return NewEngine(NewGrid(size), DefaultScoring(), false)
}

// fillRow occupies row cells [from, to) directly, bypassing placement.
func fillRow(g *Grid, row, from, to int) {
	for c := from; c < to; c++ {
		g.setCell(position(row, c), Cell{State: CellOccupied, Color: 1})
	}
}

func fillCol(g *Grid, col, from, to int) {
	for r := from; r < to; r++ {
		g.setCell(position(r, col), Cell{State: CellOccupied, Color: 1})
	}
}

func TestCanPlaceRequiresEmptyCells(t *testing.T) {
	e := newTestEngine(10)
	p := NewPattern(ShapeSquare2)

	assert.True(t, e.CanPlace(p, position(0, 0)))

	e.grid.setCell(position(1, 1), Cell{State: CellOccupied, Color: 1})
	assert.False(t, e.CanPlace(p, position(0, 0)))
	assert.True(t, e.CanPlace(p, position(2, 2)))

	// Out of bounds is false whenever GridPositions fails.
	assert.False(t, e.CanPlace(p, position(9, 9)))
	assert.False(t, e.CanPlace(p, position(-1, 0)))
}

func TestPreviewNeverMutates(t *testing.T) {
	e := newTestEngine(10)
	fillRow(e.grid, 0, 0, 9)
	before := e.grid.ToFlat()

	p := NewPattern(ShapeDot)
	for i := 0; i < 100; i++ {
		res := e.Preview(p, position(0, 9))
		require.True(t, res.Valid)
		assert.Equal(t, []int{0}, res.Rows)
	}
	assert.Equal(t, before, e.grid.ToFlat())
}

func TestPreviewReportsCompletingLines(t *testing.T) {
	e := newTestEngine(10)
	fillRow(e.grid, 3, 0, 8)
	fillCol(e.grid, 7, 0, 3)
	fillCol(e.grid, 7, 5, 10)

	// The bar at (3,8) fills the last two cells of row 3; column 7 still
	// misses (4,7), so only the row is reported.
	res := e.Preview(NewPattern(ShapeBar2H), position(3, 8))
	require.True(t, res.Valid)
	assert.Equal(t, []int{3}, res.Rows)
	assert.Empty(t, res.Cols)
}

func TestCommitClearsFullRow(t *testing.T) {
	e := newTestEngine(10)

	// Two 5-bars fill row 0 completely; the second commit clears it.
	first, err := e.Commit(NewPattern(ShapeBar5H), position(0, 0))
	require.NoError(t, err)
	assert.Empty(t, first.Rows)
	assert.Equal(t, 5, first.Score) // placement only, 5 cells

	second, err := e.Commit(NewPattern(ShapeBar5H), position(0, 5))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, second.Rows)
	assert.Empty(t, second.Cols)

	scoring := DefaultScoring()
	assert.Equal(t, scoring.PlacementScore(5)+scoring.LineClearScore(1), second.Score)

	for c := 0; c < 10; c++ {
		assert.Equal(t, CellEmpty, e.grid.CellAt(position(0, c)).State)
	}
}

func TestCommitSingleCellFinishesRow(t *testing.T) {
	e := newTestEngine(10)
	fillRow(e.grid, 0, 0, 9)

	res, err := e.Commit(NewPattern(ShapeDot), position(0, 9))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, res.Rows)

	scoring := DefaultScoring()
	assert.Equal(t, scoring.PlacementScore(1)+scoring.LineClearScore(1), res.Score)
	for c := 0; c < 10; c++ {
		assert.Equal(t, CellEmpty, e.grid.CellAt(position(0, c)).State)
	}
}

func TestCommitCrossIntersectionClearedOnce(t *testing.T) {
	e := newTestEngine(10)
	fillRow(e.grid, 4, 0, 4)
	fillRow(e.grid, 4, 5, 10)
	fillCol(e.grid, 4, 0, 4)
	fillCol(e.grid, 4, 5, 10)

	res, err := e.Commit(NewPattern(ShapeDot), position(4, 4))
	require.NoError(t, err)
	assert.Equal(t, []int{4}, res.Rows)
	assert.Equal(t, []int{4}, res.Cols)

	// Both lines scored, shared cell cleared exactly once.
	scoring := DefaultScoring()
	assert.Equal(t, scoring.PlacementScore(1)+scoring.LineClearScore(2), res.Score)
	for i := 0; i < 10; i++ {
		assert.Equal(t, CellEmpty, e.grid.CellAt(position(4, i)).State)
		assert.Equal(t, CellEmpty, e.grid.CellAt(position(i, 4)).State)
	}
}

func TestCommitRejectsIllegalAnchor(t *testing.T) {
	e := newTestEngine(10)
	e.grid.setCell(position(0, 0), Cell{State: CellOccupied, Color: 2})
	before := e.grid.ToFlat()

	_, err := e.Commit(NewPattern(ShapeSquare2), position(0, 0))
	assert.ErrorIs(t, err, ErrInvalidPlacement)

	_, err = e.Commit(NewPattern(ShapeBar3H), position(0, 8))
	assert.ErrorIs(t, err, ErrInvalidPlacement)

	// A failed commit leaves the grid untouched.
	assert.Equal(t, before, e.grid.ToFlat())
}

func TestLockedCellsSurviveClears(t *testing.T) {
	e := NewEngine(NewGrid(10), DefaultScoring(), true)
	e.SeedLocked([]Position{position(0, 0)}, 2)
	fillRow(e.grid, 0, 1, 9)

	res, err := e.Commit(NewPattern(ShapeDot), position(0, 9))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, res.Rows)

	// The locked cell counts toward fullness but is immune to the clear.
	assert.Equal(t, CellLocked, e.grid.CellAt(position(0, 0)).State)
	for c := 1; c < 10; c++ {
		assert.Equal(t, CellEmpty, e.grid.CellAt(position(0, c)).State)
	}
}

func TestAddJunkCellsOnlyFillsEmpty(t *testing.T) {
	e := newTestEngine(4)
	e.grid.setCell(position(0, 0), Cell{State: CellOccupied, Color: 3})
	e.grid.setCell(position(1, 1), Cell{State: CellLocked, Color: 2})

	placed := e.AddJunkCells(100, rand.New(rand.NewSource(1)))
	assert.Equal(t, 14, placed)

	assert.Equal(t, ColorID(3), e.grid.CellAt(position(0, 0)).Color)
	assert.Equal(t, CellLocked, e.grid.CellAt(position(1, 1)).State)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			assert.True(t, e.grid.CellAt(position(r, c)).Filled())
		}
	}
}

func TestCanPlaceAnywhere(t *testing.T) {
	e := newTestEngine(3)
	assert.True(t, e.CanPlaceAnywhere(NewPattern(ShapeSquare3)))

	e.grid.setCell(position(1, 1), Cell{State: CellOccupied, Color: 1})
	assert.False(t, e.CanPlaceAnywhere(NewPattern(ShapeSquare3)))
	assert.True(t, e.CanPlaceAnywhere(NewPattern(ShapeDot)))
}
