package game

// Scoring holds the tunable score constants. Placement awards points per
// placed cell; line clears award a base amount per line scaled by a
// multiplier that grows with the number of simultaneously cleared lines.
type Scoring struct {
	PerCell     int
	LineBase    int
	Multipliers []int // indexed by lines-1, last entry used beyond the table
}

func DefaultScoring() Scoring {
	return Scoring{
		PerCell:     1,
		LineBase:    10,
		Multipliers: []int{1, 3, 6, 10, 15},
	}
}

func (s Scoring) PlacementScore(cells int) int {
	return cells * s.PerCell
}

func (s Scoring) LineClearScore(lines int) int {
	if lines <= 0 {
		return 0
	}
	idx := lines - 1
	if idx >= len(s.Multipliers) {
		idx = len(s.Multipliers) - 1
	}
	return s.LineBase * lines * s.Multipliers[idx]
}
