package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mlem/gridlock/internal/game"
	"github.com/mlem/gridlock/internal/protocol"
)

var (
	// Indexed by game.ColorID; 0 is empty, 8 is the junk color.
	colors = []string{
		"0",
		"196",
		"46",
		"226",
		"21",
		"201",
		"51",
		"248",
		"245",
	}

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("15"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("15"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("51"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	ghostStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	readyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	notReadyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	selectedSlotStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("226"))

	slotStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	gameOverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	winnerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226"))
)

func colorFor(id game.ColorID) string {
	if int(id) < len(colors) {
		return colors[id]
	}
	return "15"
}

func cellGlyph(c game.Cell) string {
	switch c.State {
	case game.CellOccupied:
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFor(c.Color))).
			Render("██")
	case game.CellLocked:
		return lockedStyle.Render("▒▒")
	case game.CellPreview:
		return ghostStyle.Render("[]")
	default:
		return dimStyle.Render("· ")
	}
}

// RenderBoard draws the grid. ghost, when non-nil and valid, is overlaid
// the same way the drag preview overlay is (used by the keyboard cursor).
func RenderBoard(g *game.Grid, ghost *game.PreviewResult) string {
	ghostCells := make(map[game.Position]bool)
	if ghost != nil && ghost.Valid {
		for _, p := range ghost.Positions {
			ghostCells[p] = true
		}
	}

	var sb strings.Builder
	size := g.Size()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			pos, _ := game.NewPosition(r, c, size)
			cell := g.CellAt(pos)
			if cell.State == game.CellEmpty && ghostCells[pos] {
				cell = game.Cell{State: game.CellPreview}
			}
			sb.WriteString(cellGlyph(cell))
		}
		if r < size-1 {
			sb.WriteString("\n")
		}
	}
	return boardStyle.Render(sb.String())
}

// RenderPattern draws a pattern into a fixed cells-wide box so tray slots
// line up regardless of shape size.
func RenderPattern(p *game.Pattern, cells int, lifted bool) string {
	var sb strings.Builder
	for y := 0; y < cells; y++ {
		for x := 0; x < cells; x++ {
			if p != nil && p.Covers(x, y) {
				glyph := "██"
				style := lipgloss.NewStyle().Foreground(lipgloss.Color(colorFor(p.Color)))
				if lifted {
					glyph = "[]"
					style = ghostStyle
				}
				sb.WriteString(style.Render(glyph))
			} else {
				sb.WriteString("  ")
			}
		}
		if y < cells-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// RenderTray draws the offered patterns side by side. The dragged slot is
// shown lifted; the keyboard-selected slot gets a highlighted border.
func RenderTray(slots []*game.Pattern, selected, dragging int) string {
	parts := make([]string, 0, len(slots))
	for i, p := range slots {
		body := RenderPattern(p, traySlotCells, i == dragging)
		style := slotStyle
		if i == selected {
			style = selectedSlotStyle
		}
		parts = append(parts, lipgloss.JoinVertical(lipgloss.Left,
			infoStyle.Render(fmt.Sprintf("%d", i+1)),
			style.Render(body),
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// RenderHold draws the hold slot and its remaining budget.
func RenderHold(h *game.HoldSlot, policy game.SwapPolicy) string {
	body := RenderPattern(h.Held(), traySlotCells, false)

	status := ""
	switch policy.Mode {
	case game.SwapOncePerTurn:
		if h.OnCooldown() {
			status = notReadyStyle.Render("cooldown")
		} else {
			status = readyStyle.Render("ready")
		}
	case game.SwapLimited:
		status = infoStyle.Render(fmt.Sprintf("%d left", h.UsesRemaining()))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Hold"),
		panelStyle.Render(body),
		status,
	)
}

// RenderInfo is the score panel beside the board.
func RenderInfo(s *game.Session) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("GRIDLOCK"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Score  %d\n", s.Score))
	sb.WriteString(fmt.Sprintf("Lines  %d\n", s.Lines))
	sb.WriteString(fmt.Sprintf("Moves  %d\n", s.Moves))
	if s.Streak > 1 {
		sb.WriteString(fmt.Sprintf("Streak x%d\n", s.Streak))
	}
	cfg := s.Config()
	if cfg.TargetScore > 0 {
		sb.WriteString(fmt.Sprintf("Goal   %d pts\n", cfg.TargetScore))
	}
	if cfg.TargetLines > 0 {
		sb.WriteString(fmt.Sprintf("Goal   %d lines\n", cfg.TargetLines))
	}
	sb.WriteString("\n")
	sb.WriteString(infoStyle.Render("drag a block onto the grid\n1-3 select · arrows aim\nenter place · h hold"))
	return sb.String()
}

// RenderScoreFloat is the transient "+N" shown after a scoring placement.
func RenderScoreFloat(delta int) string {
	if delta <= 0 {
		return ""
	}
	return winnerStyle.Render(fmt.Sprintf("+%d", delta))
}

// RenderNetOpponents draws compact opponent boards, one glyph per cell.
func RenderNetOpponents(opponents []protocol.OpponentState, size int) string {
	if len(opponents) == 0 {
		return ""
	}

	parts := make([]string, 0, len(opponents))
	for _, o := range opponents {
		var sb strings.Builder
		name := o.PlayerName
		if !o.Alive {
			name += " ☠"
		}
		sb.WriteString(infoStyle.Render(name))
		sb.WriteString("\n")
		for r := 0; r < size; r++ {
			for c := 0; c < size; c++ {
				idx := r*size + c
				glyph := dimStyle.Render("·")
				if idx < len(o.Board) && o.Board[idx] != 0 {
					v := o.Board[idx]
					if v < 0 {
						v = -v
					}
					glyph = lipgloss.NewStyle().
						Foreground(lipgloss.Color(colorFor(game.ColorID(v)))).
						Render("█")
				}
				sb.WriteString(glyph)
			}
			sb.WriteString("\n")
		}
		sb.WriteString(infoStyle.Render(fmt.Sprintf("%d pts", o.Score)))
		parts = append(parts, panelStyle.Render(sb.String()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func RenderWelcome() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("G R I D L O C K"))
	sb.WriteString("\n\n")
	sb.WriteString("Drag blocks onto the grid. Fill a row or a column to clear it.\n\n")
	sb.WriteString("  [1] Single player\n")
	sb.WriteString("  [2] Multiplayer lobby\n\n")
	sb.WriteString(dimStyle.Render("q quits"))
	return sb.String()
}

func RenderLobby(players []protocol.LobbyPlayer, selfName string) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Lobby"))
	sb.WriteString("\n\n")
	for _, p := range players {
		mark := notReadyStyle.Render("[ ]")
		if p.Ready {
			mark = readyStyle.Render("[✓]")
		}
		name := p.Name
		if name == selfName {
			name += " (you)"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, name))
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("space toggles ready · match starts when everyone is"))
	return sb.String()
}

func RenderCountdown(value int) string {
	return titleStyle.Render(fmt.Sprintf("Starting in %d...", value))
}

func RenderSingleGameOver(score, lines int, won bool) string {
	var sb strings.Builder
	if won {
		sb.WriteString(winnerStyle.Render("Objective complete!"))
	} else {
		sb.WriteString(gameOverStyle.Render("No more moves."))
	}
	sb.WriteString(fmt.Sprintf("\n\nFinal score: %d\nLines cleared: %d", score, lines))
	return sb.String()
}

func RenderMatchOver(isWinner bool, score, rank int) string {
	var sb strings.Builder
	if isWinner {
		sb.WriteString(winnerStyle.Render("You win!"))
	} else {
		sb.WriteString(gameOverStyle.Render("Match over."))
	}
	sb.WriteString(fmt.Sprintf("\n\nFinal score: %d", score))
	if rank > 0 {
		sb.WriteString(fmt.Sprintf("\nYour rank: %d", rank))
	}
	return sb.String()
}
