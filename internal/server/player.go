package server

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mlem/gridlock/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 16384
)

// Player is one connected client and its outbound message queue.
type Player struct {
	ID     string
	Name   string
	Ready  bool
	Alive  bool
	Conn   *websocket.Conn
	sendCh chan []byte

	mu       sync.Mutex
	snapshot *protocol.BoardSnapshotPayload
}

func newPlayer(id string, conn *websocket.Conn) *Player {
	return &Player{
		ID:     id,
		Conn:   conn,
		Alive:  true,
		sendCh: make(chan []byte, 256),
	}
}

func (p *Player) setSnapshot(s *protocol.BoardSnapshotPayload) {
	p.mu.Lock()
	p.snapshot = s
	p.mu.Unlock()
}

func (p *Player) getSnapshot() *protocol.BoardSnapshotPayload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

// send marshals an envelope and queues it, dropping on a full queue rather
// than blocking the caller.
func (p *Player) send(env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("server: marshal error for player %s: %v", p.ID, err)
		return
	}
	select {
	case p.sendCh <- data:
	default:
		log.Printf("server: send queue full for player %s, dropping %s", p.ID, env.Type)
	}
}

// writePump sends queued messages to the WebSocket and keeps the
// connection alive with pings.
func (p *Player) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		p.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-p.sendCh:
			p.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				p.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := p.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			p.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
