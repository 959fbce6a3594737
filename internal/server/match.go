package server

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/mlem/gridlock/internal/protocol"
	"github.com/mlem/gridlock/internal/server/store"
)

const (
	broadcastInterval = 100 * time.Millisecond
	minPlayers        = 2
	lobbyResetDelay   = 2 * time.Second
)

type MatchPhase int

const (
	PhaseLobby MatchPhase = iota
	PhaseCountdown
	PhasePlaying
	PhaseGameOver
)

// Match is one versus round: a lobby of players sharing a seed, racing to
// outlast each other. Multi-line clears route junk cells to a random alive
// opponent; the last player with a live board wins.
type Match struct {
	mu       sync.RWMutex
	id       string
	phase    MatchPhase
	players  map[string]*Player
	seed     int64
	winnerID string
	results  *store.Results // nil when persistence is disabled
}

func newMatch(id string, results *store.Results) *Match {
	return &Match{
		id:      id,
		phase:   PhaseLobby,
		players: make(map[string]*Player),
		results: results,
	}
}

func (m *Match) addPlayer(p *Player) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[p.ID] = p
}

func (m *Match) removePlayer(id string) {
	m.mu.Lock()
	if p, ok := m.players[id]; ok {
		close(p.sendCh)
		delete(m.players, id)
	}
	playing := m.phase == PhasePlaying
	m.mu.Unlock()

	if playing {
		m.mu.Lock()
		m.checkWinCondition()
		m.mu.Unlock()
	}
}

func (m *Match) playerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.players)
}

func (m *Match) broadcastLobbyUpdate() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var players []protocol.LobbyPlayer
	for _, p := range m.players {
		players = append(players, protocol.LobbyPlayer{
			PlayerID: p.ID,
			Name:     p.Name,
			Ready:    p.Ready,
		})
	}
	env := protocol.Envelope{
		Type:    protocol.MsgLobbyUpdate,
		Payload: protocol.LobbyUpdatePayload{Players: players},
	}
	for _, p := range m.players {
		p.send(env)
	}
}

func (m *Match) broadcastToAll(env protocol.Envelope) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.players {
		p.send(env)
	}
}

func (m *Match) canStart() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.phase != PhaseLobby || len(m.players) < minPlayers {
		return false
	}
	for _, p := range m.players {
		if !p.Ready {
			return false
		}
	}
	return true
}

func (m *Match) startCountdown() {
	m.mu.Lock()
	m.phase = PhaseCountdown
	m.mu.Unlock()

	go func() {
		for i := 3; i > 0; i-- {
			m.broadcastToAll(protocol.Envelope{
				Type:    protocol.MsgCountdown,
				Payload: protocol.CountdownPayload{Value: i},
			})
			time.Sleep(time.Second)
		}
		m.startGame()
	}()
}

func (m *Match) startGame() {
	m.mu.Lock()
	m.phase = PhasePlaying
	m.seed = rand.Int63()
	m.winnerID = ""

	var playerIDs []string
	for id, p := range m.players {
		playerIDs = append(playerIDs, id)
		p.Alive = true
		p.Ready = false
		p.setSnapshot(nil)
	}
	m.mu.Unlock()

	m.broadcastToAll(protocol.Envelope{
		Type: protocol.MsgGameStart,
		Payload: protocol.GameStartPayload{
			Seed:    m.seed,
			Players: playerIDs,
		},
	})

	go m.broadcastLoop()
}

// broadcastLoop fans out opponent snapshots while the match is playing. It
// exits on the first tick after the phase leaves Playing.
func (m *Match) broadcastLoop() {
	ticker := time.NewTicker(broadcastInterval)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.RLock()
		phase := m.phase
		m.mu.RUnlock()
		if phase != PhasePlaying {
			return
		}
		m.sendOpponentUpdates()
	}
}

func (m *Match) sendOpponentUpdates() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	states := make(map[string]protocol.OpponentState, len(m.players))
	for _, p := range m.players {
		state := protocol.OpponentState{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Alive:      p.Alive,
		}
		if snap := p.getSnapshot(); snap != nil {
			state.Score = snap.Score
			state.Lines = snap.Lines
			state.Moves = snap.Moves
			state.Alive = snap.Alive && p.Alive
			state.Board = snap.Board
		}
		states[p.ID] = state
	}

	for _, p := range m.players {
		var opponents []protocol.OpponentState
		for id, state := range states {
			if id != p.ID {
				opponents = append(opponents, state)
			}
		}
		p.send(protocol.Envelope{
			Type:    protocol.MsgOpponentUpdate,
			Payload: protocol.OpponentUpdatePayload{Opponents: opponents},
		})
	}
}

// handleLinesCleared routes junk cells from a clearing placement to a
// random alive opponent.
func (m *Match) handleLinesCleared(attackerID string, payload protocol.LinesClearedPayload) {
	if payload.JunkCells <= 0 {
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var targets []string
	for id, p := range m.players {
		if id != attackerID && p.Alive {
			targets = append(targets, id)
		}
	}
	if len(targets) == 0 {
		return
	}

	target := m.players[targets[rand.Intn(len(targets))]]
	target.send(protocol.Envelope{
		Type: protocol.MsgReceiveJunk,
		Payload: protocol.ReceiveJunkPayload{
			Cells:      payload.JunkCells,
			AttackerID: attackerID,
		},
	})
}

// handlePlayerDone marks a dead board and checks for a winner.
func (m *Match) handlePlayerDone(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.players[playerID]; ok {
		p.Alive = false
	}
	m.checkWinCondition()
}

// checkWinCondition must be called with m.mu held. The last alive player
// wins; if every board died, the highest snapshot score wins.
func (m *Match) checkWinCondition() {
	if m.phase != PhasePlaying {
		return
	}

	var alive []*Player
	for _, p := range m.players {
		if p.Alive {
			alive = append(alive, p)
		}
	}
	if len(alive) > 1 || len(m.players) < minPlayers {
		return
	}

	m.phase = PhaseGameOver
	winner := (*Player)(nil)
	if len(alive) == 1 {
		winner = alive[0]
	} else {
		for _, p := range m.players {
			if winner == nil || snapshotScore(p) > snapshotScore(winner) {
				winner = p
			}
		}
	}

	winnerID, winnerName := "", ""
	if winner != nil {
		winnerID, winnerName = winner.ID, winner.Name
		m.winnerID = winnerID
	}

	// Rank the rest by score below the winner.
	ranked := make([]*Player, 0, len(m.players))
	for _, p := range m.players {
		if p.ID != winnerID {
			ranked = append(ranked, p)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		return snapshotScore(ranked[i]) > snapshotScore(ranked[j])
	})

	ranks := map[string]int{winnerID: 1}
	for i, p := range ranked {
		ranks[p.ID] = i + 2
	}

	for _, p := range m.players {
		p.send(protocol.Envelope{
			Type: protocol.MsgMatchOver,
			Payload: protocol.MatchOverPayload{
				WinnerID:   winnerID,
				WinnerName: winnerName,
				YourRank:   ranks[p.ID],
			},
		})
	}

	m.persistResults(winnerID)

	go func() {
		time.Sleep(lobbyResetDelay)
		m.resetToLobby()
		m.broadcastLobbyUpdate()
	}()
}

func snapshotScore(p *Player) int {
	if snap := p.getSnapshot(); snap != nil {
		return snap.Score
	}
	return 0
}

// persistResults writes one row per player. Best effort: a storage error
// is logged, never surfaced to the match. Must be called with m.mu held.
func (m *Match) persistResults(winnerID string) {
	if m.results == nil {
		return
	}
	rows := make([]store.MatchResult, 0, len(m.players))
	for _, p := range m.players {
		row := store.MatchResult{
			MatchID:    m.id,
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Won:        p.ID == winnerID,
		}
		if snap := p.getSnapshot(); snap != nil {
			row.Score = snap.Score
			row.Lines = snap.Lines
		}
		rows = append(rows, row)
	}

	results := m.results
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, row := range rows {
			if err := results.Save(ctx, row); err != nil {
				log.Printf("server: saving result for %s: %v", row.PlayerID, err)
			}
		}
	}()
}

func (m *Match) resetToLobby() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phase = PhaseLobby
	for _, p := range m.players {
		p.Ready = false
		p.Alive = true
	}
}
