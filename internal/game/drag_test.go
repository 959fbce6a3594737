package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSupplier struct {
	shapes []ShapeID
	next   int
}

func (f *fixedSupplier) Next() Pattern {
	p := NewPattern(f.shapes[f.next%len(f.shapes)])
	f.next++
	return p
}

func newTestMachine(shapes ...ShapeID) (*Machine, *Engine, *Tray) {
	engine := newTestEngine(10)
	tray := NewTray(3, &fixedSupplier{shapes: shapes})
	m := NewMachine(engine, tray)
	// One screen column pair per grid column, one row per grid row, grid at
	// the screen origin.
	m.SetGeometry(Geometry{OriginX: 0, OriginY: 0, CellW: 2, CellH: 1})
	return m, engine, tray
}

func TestDragOffsetStaysConstant(t *testing.T) {
	m, _, _ := newTestMachine(ShapeDot)

	ok := m.Start(0, Point{X: 120, Y: 200}, Point{X: 100, Y: 180})
	require.True(t, ok)
	require.Equal(t, Point{X: 20, Y: 20}, m.Session().Offset)

	m.Update(Point{X: 150, Y: 230})
	assert.Equal(t, Point{X: 130, Y: 210}, m.Session().BlockTopLeft())

	// The offset is captured once at start, never recomputed mid-drag.
	m.Update(Point{X: 11, Y: 7})
	assert.Equal(t, Point{X: 20, Y: 20}, m.Session().Offset)
	assert.Equal(t, Point{X: -9, Y: -13}, m.Session().BlockTopLeft())
}

func TestDragExclusivity(t *testing.T) {
	m, _, _ := newTestMachine(ShapeDot)

	require.True(t, m.Start(0, Point{X: 5, Y: 5}, Point{X: 5, Y: 5}))
	assert.Equal(t, DragActive, m.State())

	// A second press is ignored; the first session keeps its slot.
	assert.False(t, m.Start(1, Point{X: 40, Y: 40}, Point{X: 40, Y: 40}))
	assert.Equal(t, 0, m.Session().Slot)
}

func TestDragOutsideGridCancels(t *testing.T) {
	m, engine, _ := newTestMachine(ShapeDot)
	before := engine.Grid().ToFlat()

	require.True(t, m.Start(0, Point{X: 500, Y: 500}, Point{X: 500, Y: 500}))
	res := m.End(Point{X: 500, Y: 500})

	assert.False(t, res.Placed)
	assert.Equal(t, DragIdle, m.State())
	assert.Nil(t, m.Session())
	assert.Equal(t, before, engine.Grid().ToFlat())
}

func TestDragCommitRegeneratesSlot(t *testing.T) {
	m, engine, tray := newTestMachine(ShapeDot, ShapeBar2H, ShapeBar3H, ShapeSquare2)
	taken := *tray.Slot(0)

	// Grab the block exactly at its corner and drop it over cell (3,3):
	// screen (6,3) with 2x1 cells.
	require.True(t, m.Start(0, Point{X: 6, Y: 3}, Point{X: 6, Y: 3}))

	preview := m.Update(Point{X: 6, Y: 3})
	require.True(t, preview.Valid)
	assert.Equal(t, CellPreview, engine.Grid().CellAt(position(3, 3)).State)

	res := m.End(Point{X: 6, Y: 3})
	require.True(t, res.Placed)
	assert.Equal(t, Position{Row: 3, Col: 3}, res.Anchor)
	assert.Equal(t, CellOccupied, engine.Grid().CellAt(position(3, 3)).State)
	assert.Equal(t, DragIdle, m.State())

	// The consumed slot was refilled from the supplier.
	require.NotNil(t, tray.Slot(0))
	assert.NotEqual(t, taken.Shape, tray.Slot(0).Shape)
}

func TestDragEndOnOccupiedCellCancels(t *testing.T) {
	m, engine, _ := newTestMachine(ShapeDot)
	engine.Grid().setCell(position(0, 0), Cell{State: CellOccupied, Color: 1})

	require.True(t, m.Start(0, Point{X: 0, Y: 0}, Point{X: 0, Y: 0}))
	res := m.End(Point{X: 0, Y: 0})

	assert.False(t, res.Placed)
	assert.Equal(t, DragIdle, m.State())
}

func TestCancelClearsPreviewOverlay(t *testing.T) {
	m, engine, _ := newTestMachine(ShapeDot)

	require.True(t, m.Start(0, Point{X: 0, Y: 0}, Point{X: 0, Y: 0}))
	m.Update(Point{X: 0, Y: 0})
	require.Equal(t, CellPreview, engine.Grid().CellAt(position(0, 0)).State)

	m.Cancel()
	assert.Equal(t, CellEmpty, engine.Grid().CellAt(position(0, 0)).State)
	assert.Equal(t, DragIdle, m.State())

	// Cancel while idle is a no-op.
	m.Cancel()
	assert.Equal(t, DragIdle, m.State())
}

func TestGeometryAnchorMapping(t *testing.T) {
	g := Geometry{OriginX: 10, OriginY: 4, CellW: 2, CellH: 1}

	anchor, ok := g.AnchorAt(Point{X: 10, Y: 4}, 10)
	require.True(t, ok)
	assert.Equal(t, Position{Row: 0, Col: 0}, anchor)

	anchor, ok = g.AnchorAt(Point{X: 17, Y: 9}, 10)
	require.True(t, ok)
	assert.Equal(t, Position{Row: 5, Col: 3}, anchor)

	_, ok = g.AnchorAt(Point{X: 9, Y: 4}, 10)
	assert.False(t, ok)
	_, ok = g.AnchorAt(Point{X: 10 + 20, Y: 4}, 10)
	assert.False(t, ok)
}
