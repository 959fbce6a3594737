package tui

import "github.com/mlem/gridlock/internal/game"

// The playing screen is anchored to the terminal origin (never centered)
// so raw mouse coordinates map straight onto the board geometry below.
const (
	cellW = 2
	cellH = 1

	infoWidth = 24 // info panel sits left of the board
	boardTop  = 0

	// The top row (info, board, hold, opponents) is padded to a fixed
	// height so the tray rectangles never move.
	topRowHeight = 15

	traySlotCells = 5
	slotPitch     = traySlotCells*cellW + 2 // bordered slot box width
	trayTop       = topRowHeight

	holdLeft  = infoWidth + game.DefaultGridSize*cellW + 2 // past the board box
	holdWidth = traySlotCells*cellW + 4
)

// boardGeometry is the grid screen frame handed to the drag machine. The
// +1 skips the board border.
func boardGeometry() game.Geometry {
	return game.Geometry{
		OriginX: infoWidth + 1,
		OriginY: boardTop + 1,
		CellW:   cellW,
		CellH:   cellH,
	}
}

// slotOrigin is the screen position of tray slot i's pattern area: one
// label row and one border row below trayTop, one border column in.
func slotOrigin(i int) game.Point {
	return game.Point{X: i*slotPitch + 1, Y: trayTop + 2}
}

// slotAt hit-tests the tray; returns the slot index and its pattern
// origin.
func slotAt(x, y, slots int) (int, game.Point, bool) {
	for i := 0; i < slots; i++ {
		o := slotOrigin(i)
		if x >= o.X && x < o.X+traySlotCells*cellW &&
			y >= o.Y && y < o.Y+traySlotCells*cellH {
			return i, o, true
		}
	}
	return 0, game.Point{}, false
}

// inHoldBox hit-tests the hold panel to the right of the board.
func inHoldBox(x, y int) bool {
	return x >= holdLeft && x < holdLeft+holdWidth &&
		y >= boardTop && y < boardTop+traySlotCells+4
}
