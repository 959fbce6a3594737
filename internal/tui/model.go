package tui

import (
	"encoding/json"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mlem/gridlock/internal/game"
	"github.com/mlem/gridlock/internal/netclient"
	"github.com/mlem/gridlock/internal/protocol"
)

// --- Custom tea.Msg types ---

type TickMsg time.Time

// SnapshotTickMsg triggers sending board snapshots to the server.
type SnapshotTickMsg time.Time

// --- Screens and modes ---

type Screen int

const (
	ScreenConnecting Screen = iota
	ScreenWelcome
	ScreenLobby
	ScreenCountdown
	ScreenPlaying
	ScreenGameOver
)

type GameMode int

const (
	ModeNone GameMode = iota
	ModeSingle
	ModeMulti
)

const scoreFlashTicks = 20 // ~1s at the UI tick rate

// --- Model ---

type Model struct {
	screen     Screen
	mode       GameMode
	playerID   string
	playerName string
	session    *game.Session
	width      int
	height     int
	countdown  int

	// Keyboard fallback: selected tray slot and aim cursor.
	selected int
	cursor   game.Position

	// Floating score text after a placement.
	scoreFlash int
	flashTicks int

	// Network
	client *netclient.Client

	// Lobby state (from server)
	lobbyPlayers []protocol.LobbyPlayer

	// Multiplayer state
	opponents   []protocol.OpponentState
	seed        int64
	ready       bool
	doneSent    bool
	matchResult *protocol.MatchOverPayload

	// Error
	err          error
	disconnected bool
}

// NewModel creates a model for the client TUI.
// If client is nil, only single-player mode is available.
func NewModel(playerName string, client *netclient.Client) Model {
	screen := ScreenConnecting
	if client == nil {
		screen = ScreenWelcome
	}
	return Model{
		screen:     screen,
		playerName: playerName,
		client:     client,
	}
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func snapshotTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return SnapshotTickMsg(t)
	})
}

// --- Update ---

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case TickMsg:
		return m.handleTick()
	case SnapshotTickMsg:
		return m.handleSnapshotTick()

	// Network messages
	case netclient.ConnectedMsg:
		m.playerID = msg.PlayerID
		m.screen = ScreenWelcome
		return m, nil
	case netclient.DisconnectedMsg:
		m.disconnected = true
		m.err = msg.Err
		return m, nil
	case netclient.ServerMsg:
		return m.handleServerMsg(msg)
	}
	return m, nil
}

// --- Session lifecycle ---

func (m *Model) startSession(seed int64, seeded bool) {
	id := m.playerID
	if id == "" {
		id = "local"
	}
	cfg := game.DefaultConfig()
	if seeded {
		m.session = game.NewSeededSession(id, m.playerName, seed, cfg)
	} else {
		m.session = game.NewSession(id, m.playerName, cfg)
	}
	m.session.SetGeometry(boardGeometry())
	m.selected = 0
	m.cursor = game.Position{}
	m.scoreFlash = 0
	m.doneSent = false
	m.screen = ScreenPlaying
}

// --- Network message handlers ---

func (m Model) handleServerMsg(msg netclient.ServerMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case protocol.MsgLobbyUpdate:
		var payload protocol.LobbyUpdatePayload
		if json.Unmarshal(msg.Raw, &payload) == nil {
			m.lobbyPlayers = payload.Players
		}

	case protocol.MsgCountdown:
		var payload protocol.CountdownPayload
		if json.Unmarshal(msg.Raw, &payload) == nil {
			m.countdown = payload.Value
			m.screen = ScreenCountdown
		}

	case protocol.MsgGameStart:
		var payload protocol.GameStartPayload
		if json.Unmarshal(msg.Raw, &payload) == nil {
			m.seed = payload.Seed
			m.matchResult = nil
			m.opponents = nil

			// Shared seed: every client deals the same pattern sequence.
			m.startSession(m.seed, true)
			return m, snapshotTickCmd()
		}

	case protocol.MsgOpponentUpdate:
		var payload protocol.OpponentUpdatePayload
		if json.Unmarshal(msg.Raw, &payload) == nil {
			m.opponents = payload.Opponents
		}

	case protocol.MsgReceiveJunk:
		var payload protocol.ReceiveJunkPayload
		if json.Unmarshal(msg.Raw, &payload) == nil {
			if m.session != nil && !m.session.Over {
				// Junk lands when the next placement resolves.
				m.session.ReceiveJunk(payload.Cells)
			}
		}

	case protocol.MsgMatchOver:
		var payload protocol.MatchOverPayload
		if json.Unmarshal(msg.Raw, &payload) == nil {
			m.matchResult = &payload
			m.screen = ScreenGameOver
		}
	}

	return m, nil
}

// --- Key handlers ---

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if m.client != nil {
			m.client.Close()
		}
		return m, tea.Quit
	case "q":
		if m.screen == ScreenPlaying {
			// Don't quit mid-game with q
			break
		}
		if m.client != nil {
			m.client.Close()
		}
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenWelcome:
		return m.handleWelcomeKeys(msg)
	case ScreenLobby:
		return m.handleLobbyKeys(msg)
	case ScreenPlaying:
		return m.handlePlayingKeys(msg)
	case ScreenGameOver:
		return m.handleGameOverKeys(msg)
	}
	return m, nil
}

func (m Model) handleWelcomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "1", "s":
		m.mode = ModeSingle
		m.startSession(0, false)
		return m, nil
	case "2", "enter":
		if m.client == nil {
			return m, nil
		}
		m.mode = ModeMulti
		m.screen = ScreenLobby
		m.ready = false
		m.client.Send(protocol.Envelope{
			Type:    protocol.MsgJoin,
			Payload: protocol.JoinPayload{PlayerName: m.playerName},
		})
	}
	return m, nil
}

func (m Model) handleLobbyKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == " " {
		m.ready = !m.ready
		if m.client != nil {
			m.client.Send(protocol.Envelope{
				Type:    protocol.MsgReady,
				Payload: protocol.ReadyPayload{Ready: m.ready},
			})
		}
	}
	return m, nil
}

func (m Model) handlePlayingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.session == nil || m.session.Over {
		return m, nil
	}
	size := m.session.Grid.Size()

	switch msg.String() {
	case "1", "2", "3":
		slot := int(msg.String()[0] - '1')
		if slot < m.session.Tray.Len() {
			m.selected = slot
		}
	case "left":
		if m.cursor.Col > 0 {
			m.cursor.Col--
		}
	case "right":
		if m.cursor.Col < size-1 {
			m.cursor.Col++
		}
	case "up":
		if m.cursor.Row > 0 {
			m.cursor.Row--
		}
	case "down":
		if m.cursor.Row < size-1 {
			m.cursor.Row++
		}
	case "enter", " ":
		clear, err := m.session.Place(m.selected, m.cursor)
		if err == nil {
			return m.afterPlacement(clear)
		}
	case "h":
		// Policy violations are shown by the hold panel state, not errors.
		m.session.HoldSwap(m.selected)
	case "esc":
		m.session.CancelDrag()
	}
	return m, nil
}

func (m Model) handleGameOverKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() != "enter" {
		return m, nil
	}
	if m.mode == ModeSingle {
		m.screen = ScreenWelcome
		m.mode = ModeNone
	} else {
		m.screen = ScreenLobby
		m.ready = false
		m.matchResult = nil
		m.opponents = nil
	}
	m.session = nil
	return m, nil
}

// --- Mouse ---

// handleMouse feeds the raw pointer stream into the drag machine: press
// over a tray slot starts a drag, motion updates the ghost preview, and
// release commits or cancels.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.screen != ScreenPlaying || m.session == nil || m.session.Over {
		return m, nil
	}
	pt := game.Point{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			if slot, origin, ok := slotAt(msg.X, msg.Y, m.session.Tray.Len()); ok {
				if m.session.StartDrag(slot, pt, origin) {
					m.selected = slot
				}
			} else if inHoldBox(msg.X, msg.Y) {
				m.session.HoldSwap(m.selected)
			}
		case tea.MouseButtonRight:
			m.session.CancelDrag()
		}

	case tea.MouseActionMotion:
		m.session.UpdateDrag(pt)

	case tea.MouseActionRelease:
		res := m.session.EndDrag(pt)
		if res.Placed {
			return m.afterPlacement(res.Clear)
		}
	}
	return m, nil
}

// afterPlacement does the per-placement presentation and network work:
// score flash, attack routing, and the done notification.
func (m Model) afterPlacement(clear game.LineClearResult) (tea.Model, tea.Cmd) {
	m.scoreFlash = clear.Score
	m.flashTicks = scoreFlashTicks

	if m.mode == ModeMulti && m.client != nil {
		if m.session.AttackPower > 0 {
			m.client.Send(protocol.Envelope{
				Type: protocol.MsgLinesCleared,
				Payload: protocol.LinesClearedPayload{
					Lines:     clear.Lines(),
					JunkCells: m.session.AttackPower,
				},
			})
			m.session.AttackPower = 0
		}
		m.notifyDoneIfNeeded()
	}
	return m, nil
}

// notifyDoneIfNeeded tells the server exactly once that this board is dead.
func (m *Model) notifyDoneIfNeeded() {
	if m.doneSent || m.client == nil || m.session == nil || !m.session.Over {
		return
	}
	m.doneSent = true
	m.client.Send(protocol.Envelope{
		Type: protocol.MsgPlayerDone,
		Payload: protocol.PlayerDonePayload{
			Score: m.session.Score,
			Lines: m.session.Lines,
		},
	})
}

// --- Tick handlers ---

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.flashTicks > 0 {
		m.flashTicks--
		if m.flashTicks == 0 {
			m.scoreFlash = 0
		}
	}

	if m.session != nil && m.session.Over && m.screen == ScreenPlaying {
		if m.mode == ModeSingle {
			m.screen = ScreenGameOver
		} else {
			// Multi: report the dead board and wait for MatchOver.
			m.notifyDoneIfNeeded()
		}
	}
	return m, tickCmd()
}

func (m Model) handleSnapshotTick() (tea.Model, tea.Cmd) {
	if m.screen != ScreenPlaying || m.mode != ModeMulti || m.session == nil {
		return m, nil
	}
	if m.client != nil {
		m.client.Send(protocol.Envelope{
			Type: protocol.MsgBoardSnapshot,
			Payload: protocol.BoardSnapshotPayload{
				Score: m.session.Score,
				Lines: m.session.Lines,
				Moves: m.session.Moves,
				Alive: !m.session.Over,
				Board: m.session.Grid.ToFlat(),
			},
		})
	}
	return m, snapshotTickCmd()
}

// --- View ---

func (m Model) View() string {
	if m.disconnected {
		return m.renderCentered("Disconnected from server.\nPress Ctrl+C to exit.")
	}

	switch m.screen {
	case ScreenConnecting:
		return m.renderCentered("Connecting to server...")
	case ScreenWelcome:
		return m.renderCentered(RenderWelcome())
	case ScreenLobby:
		return m.renderCentered(RenderLobby(m.lobbyPlayers, m.playerName))
	case ScreenCountdown:
		return m.renderCentered(RenderCountdown(m.countdown))
	case ScreenPlaying:
		return m.renderPlaying()
	case ScreenGameOver:
		return m.renderGameOver()
	}
	return ""
}

func (m Model) renderCentered(content string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (m Model) renderPlaying() string {
	if m.session == nil {
		return "Loading..."
	}

	// Keyboard aim ghost: shown only while no drag is active, so the two
	// preview channels never fight.
	var ghost *game.PreviewResult
	draggingSlot := -1
	if session := m.session.Drag.Session(); session != nil {
		draggingSlot = session.Slot
	} else if p := m.session.Tray.Slot(m.selected); p != nil {
		g := m.session.Engine.Preview(*p, m.cursor)
		ghost = &g
	}

	info := RenderInfo(m.session)
	if m.scoreFlash > 0 {
		info += "\n" + RenderScoreFloat(m.scoreFlash)
	}
	leftPanel := lipgloss.NewStyle().Width(infoWidth).Render(info)

	board := RenderBoard(m.session.Grid, ghost)
	hold := RenderHold(m.session.Hold, m.session.Config().HoldPolicy)

	columns := []string{leftPanel, board, hold}
	if m.mode == ModeMulti && len(m.opponents) > 0 {
		columns = append(columns,
			RenderNetOpponents(m.opponents, m.session.Grid.Size()))
	}

	topRow := lipgloss.NewStyle().
		Height(topRowHeight).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, columns...))

	tray := RenderTray(m.session.Tray.Slots(), m.selected, draggingSlot)

	return lipgloss.JoinVertical(lipgloss.Left, topRow, tray)
}

func (m Model) renderGameOver() string {
	if m.session == nil {
		return m.renderCentered("Game Over")
	}

	var content string
	if m.mode == ModeSingle {
		content = RenderSingleGameOver(m.session.Score, m.session.Lines, m.session.Won)
	} else if m.matchResult != nil {
		isWinner := m.matchResult.WinnerID == m.playerID
		content = RenderMatchOver(isWinner, m.session.Score, m.matchResult.YourRank)
	} else {
		content = RenderMatchOver(false, m.session.Score, 0)
	}
	content += "\n\nPress ENTER to continue"

	return m.renderCentered(content)
}
