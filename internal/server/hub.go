package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/mlem/gridlock/internal/protocol"
	"github.com/mlem/gridlock/internal/server/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub owns the matches and the HTTP surface.
type Hub struct {
	mu      sync.RWMutex
	matches map[string]*Match
	results *store.Results // nil when persistence is disabled
}

func NewHub(results *store.Results) *Hub {
	return &Hub{
		matches: make(map[string]*Match),
		results: results,
	}
}

// Router exposes the WebSocket endpoint, a health check, and the score
// leaderboard.
func (h *Hub) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws", h.handleWS)
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/scores", h.handleScores).Methods(http.MethodGet)
	return r
}

func (h *Hub) getOrCreateMainMatch() *Match {
	h.mu.Lock()
	defer h.mu.Unlock()

	const matchID = "main"
	if m, ok := h.matches[matchID]; ok {
		return m
	}
	m := newMatch(matchID, h.results)
	h.matches[matchID] = m
	return m
}

func (h *Hub) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *Hub) handleScores(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if h.results == nil {
		json.NewEncoder(w).Encode(protocol.ScoresResponse{})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.results.TopScores(ctx, 20)
	if err != nil {
		log.Printf("server: loading scores: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(protocol.ErrorResponse{Error: "failed to load scores"})
		return
	}

	resp := protocol.ScoresResponse{Scores: make([]protocol.ScoreEntry, 0, len(rows))}
	for _, row := range rows {
		resp.Scores = append(resp.Scores, protocol.ScoreEntry{
			PlayerName: row.PlayerName,
			Score:      row.Score,
			Lines:      row.Lines,
			Won:        row.Won,
		})
	}
	json.NewEncoder(w).Encode(resp)
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: upgrade error: %v", err)
		return
	}

	playerID := uuid.NewString()
	p := newPlayer(playerID, conn)
	match := h.getOrCreateMainMatch()

	p.send(protocol.Envelope{
		Type:    protocol.MsgAssignID,
		Payload: protocol.AssignIDPayload{PlayerID: playerID},
	})

	go p.writePump()
	readPump(p, match)

	match.removePlayer(playerID)
	log.Printf("server: player %s (%s) disconnected", p.Name, playerID)
	match.broadcastLobbyUpdate()
}

// readPump reads messages from one connection and dispatches them.
func readPump(p *Player, match *Match) {
	defer p.Conn.Close()

	p.Conn.SetReadLimit(maxMessageSize)
	p.Conn.SetReadDeadline(time.Now().Add(pongWait))
	p.Conn.SetPongHandler(func(string) error {
		p.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := p.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: read error for %s: %v", p.ID, err)
			}
			return
		}

		var env struct {
			Type    protocol.MessageType `json:"type"`
			Payload json.RawMessage      `json:"payload"`
		}
		if err := json.Unmarshal(message, &env); err != nil {
			log.Printf("server: unmarshal error from %s: %v", p.ID, err)
			continue
		}

		handleMessage(p, match, env.Type, env.Payload)
	}
}

func handleMessage(p *Player, match *Match, msgType protocol.MessageType, raw json.RawMessage) {
	switch msgType {
	case protocol.MsgJoin:
		var payload protocol.JoinPayload
		if json.Unmarshal(raw, &payload) == nil {
			p.Name = payload.PlayerName
			match.addPlayer(p)
			log.Printf("server: player %s (%s) joined", p.Name, p.ID)
			match.broadcastLobbyUpdate()
		}

	case protocol.MsgReady:
		var payload protocol.ReadyPayload
		if json.Unmarshal(raw, &payload) == nil {
			p.Ready = payload.Ready
			match.broadcastLobbyUpdate()
			if match.canStart() {
				match.startCountdown()
			}
		}

	case protocol.MsgBoardSnapshot:
		var payload protocol.BoardSnapshotPayload
		if json.Unmarshal(raw, &payload) == nil {
			p.setSnapshot(&payload)
		}

	case protocol.MsgLinesCleared:
		var payload protocol.LinesClearedPayload
		if json.Unmarshal(raw, &payload) == nil {
			match.handleLinesCleared(p.ID, payload)
		}

	case protocol.MsgPlayerDone:
		match.handlePlayerDone(p.ID)

	default:
		log.Printf("server: unknown message type from %s: %s", p.ID, msgType)
	}
}
