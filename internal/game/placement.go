package game

import (
	"errors"
	"math/rand"
)

// ErrInvalidPlacement is returned by Commit when the anchor is no longer
// legal. Commit always re-validates; it never trusts a stale preview.
var ErrInvalidPlacement = errors.New("invalid placement")

// PreviewResult is a read-only projection of where a pattern would land.
type PreviewResult struct {
	Valid     bool
	Positions []Position
	Rows      []int // rows that would complete
	Cols      []int // columns that would complete
	Score     int
}

// LineClearResult reports the outcome of one committed placement.
type LineClearResult struct {
	Rows  []int
	Cols  []int
	Score int
}

func (r LineClearResult) Lines() int {
	return len(r.Rows) + len(r.Cols)
}

// Engine validates and commits placements against a single Grid. Every
// call is a pure function of grid + inputs, so Preview is safe to run on
// every pointer move.
type Engine struct {
	grid         *Grid
	scoring      Scoring
	lockedImmune bool
}

func NewEngine(grid *Grid, scoring Scoring, lockedImmune bool) *Engine {
	return &Engine{
		grid:         grid,
		scoring:      scoring,
		lockedImmune: lockedImmune,
	}
}

func (e *Engine) Grid() *Grid {
	return e.grid
}

// CanPlace is true iff every cell the pattern would cover is inside the
// grid and empty. No side effects.
func (e *Engine) CanPlace(p Pattern, anchor Position) bool {
	positions, ok := GridPositions(p, anchor, e.grid.size)
	if !ok {
		return false
	}
	for _, pos := range positions {
		if e.grid.cells[pos.Row][pos.Col].State != CellEmpty {
			return false
		}
	}
	return true
}

// CanPlaceAnywhere reports whether any anchor on the grid accepts the
// pattern. Used by the supply side to detect a dead board.
func (e *Engine) CanPlaceAnywhere(p Pattern) bool {
	for row := 0; row <= e.grid.size-p.Height; row++ {
		for col := 0; col <= e.grid.size-p.Width; col++ {
			if e.CanPlace(p, position(row, col)) {
				return true
			}
		}
	}
	return false
}

// Preview simulates a placement without mutating the grid: legality, the
// affected cells, the lines that would complete, and the score delta.
func (e *Engine) Preview(p Pattern, anchor Position) PreviewResult {
	positions, ok := GridPositions(p, anchor, e.grid.size)
	if !ok {
		return PreviewResult{}
	}
	for _, pos := range positions {
		if e.grid.cells[pos.Row][pos.Col].State != CellEmpty {
			return PreviewResult{}
		}
	}

	rows, cols := e.completedLines(positions)
	score := e.scoring.PlacementScore(len(positions)) +
		e.scoring.LineClearScore(len(rows)+len(cols))

	return PreviewResult{
		Valid:     true,
		Positions: positions,
		Rows:      rows,
		Cols:      cols,
		Score:     score,
	}
}

// Commit re-validates and applies a placement: writes the occupied cells,
// scans every row and column once, clears all full lines in a single
// atomic pass, and returns the cleared lines plus the score delta. A cell
// at the intersection of a clearing row and column is cleared exactly once.
func (e *Engine) Commit(p Pattern, anchor Position) (LineClearResult, error) {
	positions, ok := GridPositions(p, anchor, e.grid.size)
	if !ok {
		return LineClearResult{}, ErrInvalidPlacement
	}
	for _, pos := range positions {
		if e.grid.cells[pos.Row][pos.Col].State != CellEmpty {
			return LineClearResult{}, ErrInvalidPlacement
		}
	}

	for _, pos := range positions {
		e.grid.setCell(pos, Cell{State: CellOccupied, Color: p.Color})
	}

	// Read fully before any clearing write so a row and a column that
	// share a cell are both honored.
	rows, cols := e.completedLines(nil)
	for _, r := range rows {
		e.clearRow(r)
	}
	for _, c := range cols {
		e.clearCol(c)
	}

	score := e.scoring.PlacementScore(len(positions)) +
		e.scoring.LineClearScore(len(rows)+len(cols))

	return LineClearResult{Rows: rows, Cols: cols, Score: score}, nil
}

// completedLines returns the rows and columns that are full once the given
// pending positions are treated as occupied. With nil pending it reads the
// grid as-is. Runs off the grid's fill counters, so the cost is
// O(size + len(pending)) and Preview stays cheap on every pointer move.
func (e *Engine) completedLines(pending []Position) (rows, cols []int) {
	size := e.grid.size
	rowFill := make([]int, size)
	colFill := make([]int, size)
	copy(rowFill, e.grid.rowFill)
	copy(colFill, e.grid.colFill)

	for _, pos := range pending {
		rowFill[pos.Row]++
		colFill[pos.Col]++
	}

	for i := 0; i < size; i++ {
		if rowFill[i] == size {
			rows = append(rows, i)
		}
		if colFill[i] == size {
			cols = append(cols, i)
		}
	}
	return rows, cols
}

func (e *Engine) clearRow(row int) {
	for c := 0; c < e.grid.size; c++ {
		e.clearCell(position(row, c))
	}
}

func (e *Engine) clearCol(col int) {
	for r := 0; r < e.grid.size; r++ {
		e.clearCell(position(r, col))
	}
}

func (e *Engine) clearCell(p Position) {
	cell := e.grid.cells[p.Row][p.Col]
	if cell.State == CellLocked && e.lockedImmune {
		return
	}
	e.grid.setCell(p, Cell{})
}

// SeedLocked writes locked obstacle cells. Used once at session start for
// level setups; positions already holding a cell are left alone.
func (e *Engine) SeedLocked(positions []Position, color ColorID) {
	for _, pos := range positions {
		if !pos.InBounds(e.grid.size) {
			continue
		}
		if e.grid.cells[pos.Row][pos.Col].State == CellEmpty {
			e.grid.setCell(pos, Cell{State: CellLocked, Color: color})
		}
	}
}

// AddJunkCells scatters n junk cells into empty cells, never overwriting
// occupied or locked ones. Returns how many were actually placed.
func (e *Engine) AddJunkCells(n int, rng *rand.Rand) int {
	var empty []Position
	for r := 0; r < e.grid.size; r++ {
		for c := 0; c < e.grid.size; c++ {
			if e.grid.cells[r][c].State == CellEmpty {
				empty = append(empty, position(r, c))
			}
		}
	}
	placed := 0
	for placed < n && len(empty) > 0 {
		i := rng.Intn(len(empty))
		e.grid.setCell(empty[i], Cell{State: CellOccupied, Color: junkColor})
		empty[i] = empty[len(empty)-1]
		empty = empty[:len(empty)-1]
		placed++
	}
	return placed
}

const junkColor ColorID = 8
