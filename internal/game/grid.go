package game

const DefaultGridSize = 10

// ColorID indexes the renderer's palette. 0 is reserved for empty.
type ColorID int

type CellState int

const (
	CellEmpty CellState = iota
	CellOccupied
	CellLocked
	CellPreview
)

type Cell struct {
	State CellState
	Color ColorID
}

func (c Cell) Filled() bool {
	return c.State == CellOccupied || c.State == CellLocked
}

// Position is a validated (row, col) pair. Values built through NewPosition
// are always inside the grid; position() is the internal constructor used
// once bounds are already proven.
type Position struct {
	Row, Col int
}

func NewPosition(row, col, size int) (Position, bool) {
	if row < 0 || row >= size || col < 0 || col >= size {
		return Position{}, false
	}
	return Position{Row: row, Col: col}, true
}

func position(row, col int) Position {
	return Position{Row: row, Col: col}
}

func (p Position) InBounds(size int) bool {
	return p.Row >= 0 && p.Row < size && p.Col >= 0 && p.Col < size
}

// Grid is the fixed-size board. The placement engine is the only writer of
// persistent cells; the drag machine owns the transient preview overlay.
type Grid struct {
	size    int
	cells   [][]Cell
	preview map[Position]ColorID

	// Filled-cell counts per line, kept in sync by setCell so full-line
	// scans stay O(size) instead of O(size^2).
	rowFill []int
	colFill []int
}

func NewGrid(size int) *Grid {
	cells := make([][]Cell, size)
	for i := range cells {
		cells[i] = make([]Cell, size)
	}
	return &Grid{
		size:    size,
		cells:   cells,
		preview: make(map[Position]ColorID),
		rowFill: make([]int, size),
		colFill: make([]int, size),
	}
}

func (g *Grid) Size() int {
	return g.size
}

// CellAt never fails: positions outside any explicit write read as empty.
// The preview overlay shows through only where the underlying cell is empty.
func (g *Grid) CellAt(p Position) Cell {
	if !p.InBounds(g.size) {
		return Cell{}
	}
	c := g.cells[p.Row][p.Col]
	if c.State == CellEmpty {
		if color, ok := g.preview[p]; ok {
			return Cell{State: CellPreview, Color: color}
		}
	}
	return c
}

func (g *Grid) setCell(p Position, c Cell) {
	was := g.cells[p.Row][p.Col].Filled()
	g.cells[p.Row][p.Col] = c
	if now := c.Filled(); now != was {
		d := 1
		if !now {
			d = -1
		}
		g.rowFill[p.Row] += d
		g.colFill[p.Col] += d
	}
}

func (g *Grid) setPreview(positions []Position, color ColorID) {
	g.clearPreview()
	for _, p := range positions {
		g.preview[p] = color
	}
}

func (g *Grid) clearPreview() {
	if len(g.preview) > 0 {
		g.preview = make(map[Position]ColorID)
	}
}

// ToFlat returns the board as a flat array of color indices: 0 empty,
// positive occupied, negative locked. Preview cells are never serialized.
func (g *Grid) ToFlat() []int {
	flat := make([]int, g.size*g.size)
	for r := 0; r < g.size; r++ {
		for c := 0; c < g.size; c++ {
			switch cell := g.cells[r][c]; cell.State {
			case CellOccupied:
				flat[r*g.size+c] = int(cell.Color)
			case CellLocked:
				flat[r*g.size+c] = -int(cell.Color)
			}
		}
	}
	return flat
}

// GridFromFlat reconstructs a Grid from a flat color-index array.
func GridFromFlat(flat []int, size int) *Grid {
	g := NewGrid(size)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			idx := r*size + c
			if idx >= len(flat) || flat[idx] == 0 {
				continue
			}
			v := flat[idx]
			if v > 0 {
				g.setCell(position(r, c), Cell{State: CellOccupied, Color: ColorID(v)})
			} else {
				g.setCell(position(r, c), Cell{State: CellLocked, Color: ColorID(-v)})
			}
		}
	}
	return g
}
