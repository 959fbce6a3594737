package netclient

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/mlem/gridlock/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 16384
	dialTimeout    = 5 * time.Second
)

// ServerMsg is a tea.Msg wrapping an incoming server message whose payload
// the TUI decodes itself.
type ServerMsg struct {
	Type protocol.MessageType
	Raw  json.RawMessage
}

// ConnectedMsg is sent once the server has assigned this client its ID.
type ConnectedMsg struct {
	PlayerID string
}

// DisconnectedMsg is sent when the WebSocket connection is lost.
type DisconnectedMsg struct {
	Err error
}

// Client manages the WebSocket connection to the versus server and bridges
// incoming messages into a bubbletea program.
type Client struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	sendCh  chan []byte
	program *tea.Program
	done    chan struct{}
	closed  bool
}

// Dial connects to the given server URL.
func Dial(serverURL string) (*Client, error) {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := dialer.Dial(serverURL, nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		conn:   conn,
		sendCh: make(chan []byte, 256),
		done:   make(chan struct{}),
	}, nil
}

// SetProgram wires in the bubbletea program that receives ServerMsg,
// ConnectedMsg and DisconnectedMsg values. Must be called before Start.
func (c *Client) SetProgram(p *tea.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.program = p
}

// Start launches the read and write pumps.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// Send marshals and queues an envelope for the server. Messages are
// dropped, not blocked on, when the queue is full.
func (c *Client) Send(env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("netclient: marshal error: %v", err)
		return
	}
	select {
	case c.sendCh <- data:
	default:
		log.Printf("netclient: send queue full, dropping %s", env.Type)
	}
}

// Close shuts down the connection. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
}

func (c *Client) send(msg tea.Msg) {
	c.mu.Lock()
	p := c.program
	c.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func (c *Client) readPump() {
	defer c.send(DisconnectedMsg{})

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("netclient: read error: %v", err)
			}
			return
		}

		var env struct {
			Type    protocol.MessageType `json:"type"`
			Payload json.RawMessage      `json:"payload"`
		}
		if err := json.Unmarshal(message, &env); err != nil {
			log.Printf("netclient: unmarshal error: %v", err)
			continue
		}

		// The ID assignment completes the connection handshake; everything
		// else is forwarded raw for the TUI to decode.
		if env.Type == protocol.MsgAssignID {
			var payload protocol.AssignIDPayload
			if json.Unmarshal(env.Payload, &payload) == nil {
				c.send(ConnectedMsg{PlayerID: payload.PlayerID})
			}
			continue
		}
		c.send(ServerMsg{Type: env.Type, Raw: env.Payload})
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
