package game

import "math/rand"

type ShapeID int

const (
	ShapeDot ShapeID = iota
	ShapeBar2H
	ShapeBar2V
	ShapeBar3H
	ShapeBar3V
	ShapeBar4H
	ShapeBar4V
	ShapeBar5H
	ShapeBar5V
	ShapeSquare2
	ShapeSquare3
	ShapeCornerTL
	ShapeCornerTR
	ShapeCornerBL
	ShapeCornerBR
	ShapeElbowTL
	ShapeElbowTR
	ShapeElbowBL
	ShapeElbowBR
	shapeCount
)

var shapeGrids = map[ShapeID][][]bool{
	ShapeDot:   {{true}},
	ShapeBar2H: {{true, true}},
	ShapeBar2V: {{true}, {true}},
	ShapeBar3H: {{true, true, true}},
	ShapeBar3V: {{true}, {true}, {true}},
	ShapeBar4H: {{true, true, true, true}},
	ShapeBar4V: {{true}, {true}, {true}, {true}},
	ShapeBar5H: {{true, true, true, true, true}},
	ShapeBar5V: {{true}, {true}, {true}, {true}, {true}},
	ShapeSquare2: {
		{true, true},
		{true, true},
	},
	ShapeSquare3: {
		{true, true, true},
		{true, true, true},
		{true, true, true},
	},
	ShapeCornerTL: {
		{true, true},
		{true, false},
	},
	ShapeCornerTR: {
		{true, true},
		{false, true},
	},
	ShapeCornerBL: {
		{true, false},
		{true, true},
	},
	ShapeCornerBR: {
		{false, true},
		{true, true},
	},
	ShapeElbowTL: {
		{true, true, true},
		{true, false, false},
		{true, false, false},
	},
	ShapeElbowTR: {
		{true, true, true},
		{false, false, true},
		{false, false, true},
	},
	ShapeElbowBL: {
		{true, false, false},
		{true, false, false},
		{true, true, true},
	},
	ShapeElbowBR: {
		{false, false, true},
		{false, false, true},
		{true, true, true},
	},
}

var shapeColors = map[ShapeID]ColorID{
	ShapeDot:      7,
	ShapeBar2H:    6,
	ShapeBar2V:    6,
	ShapeBar3H:    2,
	ShapeBar3V:    2,
	ShapeBar4H:    4,
	ShapeBar4V:    4,
	ShapeBar5H:    1,
	ShapeBar5V:    1,
	ShapeSquare2:  3,
	ShapeSquare3:  5,
	ShapeCornerTL: 2,
	ShapeCornerTR: 3,
	ShapeCornerBL: 6,
	ShapeCornerBR: 5,
	ShapeElbowTL:  1,
	ShapeElbowTR:  4,
	ShapeElbowBL:  5,
	ShapeElbowBR:  2,
}

// Offset is a cell of a pattern relative to its top-left anchor.
type Offset struct {
	DX, DY int
}

// Pattern is an immutable polyomino. Offsets is never empty and every
// offset lies within Width x Height.
type Pattern struct {
	Shape   ShapeID
	Color   ColorID
	Offsets []Offset
	Width   int
	Height  int
}

func NewPattern(shape ShapeID) Pattern {
	grid := shapeGrids[shape]
	var offsets []Offset
	width := 0
	for y, row := range grid {
		if len(row) > width {
			width = len(row)
		}
		for x, filled := range row {
			if filled {
				offsets = append(offsets, Offset{DX: x, DY: y})
			}
		}
	}
	return Pattern{
		Shape:   shape,
		Color:   shapeColors[shape],
		Offsets: offsets,
		Width:   width,
		Height:  len(grid),
	}
}

func (p Pattern) CellCount() int {
	return len(p.Offsets)
}

// Covers reports whether the pattern occupies the cell at (dx, dy).
func (p Pattern) Covers(dx, dy int) bool {
	for _, o := range p.Offsets {
		if o.DX == dx && o.DY == dy {
			return true
		}
	}
	return false
}

// GridPositions maps each occupied offset to anchor + offset. The whole
// call fails if any resulting position would leave the grid; there is no
// partial placement.
func GridPositions(p Pattern, anchor Position, size int) ([]Position, bool) {
	positions := make([]Position, 0, len(p.Offsets))
	for _, o := range p.Offsets {
		row := anchor.Row + o.DY
		col := anchor.Col + o.DX
		if row < 0 || row >= size || col < 0 || col >= size {
			return nil, false
		}
		positions = append(positions, position(row, col))
	}
	return positions, true
}

// PatternGenerator produces patterns with a shuffled-bag randomizer.
// Two generators created with the same seed produce identical sequences.
type PatternGenerator struct {
	rng *rand.Rand
	bag []ShapeID
}

func NewPatternGenerator(seed int64) *PatternGenerator {
	return &PatternGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (pg *PatternGenerator) Next() Pattern {
	if len(pg.bag) == 0 {
		pg.refillBag()
	}
	shape := pg.bag[0]
	pg.bag = pg.bag[1:]
	return NewPattern(shape)
}

func (pg *PatternGenerator) refillBag() {
	pg.bag = make([]ShapeID, 0, shapeCount)
	for s := ShapeID(0); s < shapeCount; s++ {
		pg.bag = append(pg.bag, s)
	}
	// Fisher-Yates shuffle
	for i := len(pg.bag) - 1; i > 0; i-- {
		j := pg.rng.Intn(i + 1)
		pg.bag[i], pg.bag[j] = pg.bag[j], pg.bag[i]
	}
}
