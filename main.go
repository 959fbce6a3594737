package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mlem/gridlock/internal/tui"
)

// Offline entry point: no server, no lobby, just the puzzle. The versus
// mode lives in cmd/server and cmd/client.

func main() {
	name := flag.String("name", "Player", "name shown on the game-over screen")
	flag.Parse()

	// Cell-motion mouse reporting drives the drag machine; without it
	// blocks can only be placed with the keyboard fallback.
	p := tea.NewProgram(
		tui.NewModel(*name, nil),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "gridlock:", err)
		os.Exit(1)
	}
}
