package main

import (
	"flag"
	"fmt"
	"os"
	"os/user"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mlem/gridlock/internal/netclient"
	"github.com/mlem/gridlock/internal/tui"
)

func main() {
	serverAddr := flag.String("server", "ws://localhost:8080/ws", "versus server WebSocket URL")
	playerName := flag.String("name", "", "name shown to opponents (default: OS username)")
	flag.Parse()

	client, err := netclient.Dial(*serverAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gridlock: cannot reach %s: %v\n", *serverAddr, err)
		fmt.Fprintln(os.Stderr, "start a server with: go run ./cmd/server")
		os.Exit(1)
	}
	defer client.Close()

	p := tea.NewProgram(
		tui.NewModel(resolveName(*playerName), client),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// The read pump delivers server messages as tea.Msgs once the program
	// is attached.
	client.SetProgram(p)
	client.Start()

	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "gridlock:", err)
		os.Exit(1)
	}
}

func resolveName(name string) string {
	if name != "" {
		return name
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "Player"
}
