package protocol

// MessageType identifies the kind of message sent over the wire.
type MessageType string

const (
	// Server -> Client messages
	MsgAssignID       MessageType = "assign_id"
	MsgLobbyUpdate    MessageType = "lobby_update"
	MsgCountdown      MessageType = "countdown"
	MsgGameStart      MessageType = "game_start"
	MsgOpponentUpdate MessageType = "opponent_update"
	MsgReceiveJunk    MessageType = "receive_junk"
	MsgMatchOver      MessageType = "match_over"

	// Client -> Server messages
	MsgJoin          MessageType = "join"
	MsgReady         MessageType = "ready"
	MsgBoardSnapshot MessageType = "board_snapshot"
	MsgLinesCleared  MessageType = "lines_cleared"
	MsgPlayerDone    MessageType = "player_done"
)

// Envelope is the top-level wire format for all messages.
type Envelope struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// --- Server -> Client payloads ---

// AssignIDPayload is sent when a client first connects.
type AssignIDPayload struct {
	PlayerID string `json:"player_id"`
}

// LobbyPlayer is one player entry in a lobby update.
type LobbyPlayer struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Ready    bool   `json:"ready"`
}

// LobbyUpdatePayload is sent whenever the lobby state changes.
type LobbyUpdatePayload struct {
	Players []LobbyPlayer `json:"players"`
}

// CountdownPayload carries the countdown tick value.
type CountdownPayload struct {
	Value int `json:"value"`
}

// GameStartPayload tells all clients to begin the match. The shared seed
// makes every client deal the same pattern sequence.
type GameStartPayload struct {
	Seed    int64    `json:"seed"`
	Players []string `json:"players"`
}

// OpponentState is a compressed snapshot of one opponent's board.
type OpponentState struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
	Lines      int    `json:"lines"`
	Moves      int    `json:"moves"`
	Alive      bool   `json:"alive"`
	// Board is a flat array of gridSize*gridSize color indices: 0 empty,
	// positive occupied, negative locked.
	Board []int `json:"board"`
}

// OpponentUpdatePayload carries snapshots of all opponents.
type OpponentUpdatePayload struct {
	Opponents []OpponentState `json:"opponents"`
}

// ReceiveJunkPayload tells a client to buffer incoming junk cells.
type ReceiveJunkPayload struct {
	Cells      int    `json:"cells"`
	AttackerID string `json:"attacker_id"`
}

// MatchOverPayload is sent when the match concludes.
type MatchOverPayload struct {
	WinnerID   string `json:"winner_id"`
	WinnerName string `json:"winner_name"`
	YourRank   int    `json:"your_rank"`
}

// --- Client -> Server payloads ---

// JoinPayload is sent when a client wants to join the lobby.
type JoinPayload struct {
	PlayerName string `json:"player_name"`
}

// ReadyPayload toggles ready status.
type ReadyPayload struct {
	Ready bool `json:"ready"`
}

// BoardSnapshotPayload is the client's current board state.
type BoardSnapshotPayload struct {
	Score int   `json:"score"`
	Lines int   `json:"lines"`
	Moves int   `json:"moves"`
	Alive bool  `json:"alive"`
	Board []int `json:"board"`
}

// LinesClearedPayload reports a clearing placement so the server can route
// the junk attack.
type LinesClearedPayload struct {
	Lines     int `json:"lines"`
	JunkCells int `json:"junk_cells"`
}

// PlayerDonePayload informs the server this player's board is dead.
type PlayerDonePayload struct {
	Score int `json:"score"`
	Lines int `json:"lines"`
}

// --- HTTP payloads ---

// ScoreEntry is one row of the GET /scores response.
type ScoreEntry struct {
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
	Lines      int    `json:"lines"`
	Won        bool   `json:"won"`
}

// ScoresResponse is returned by GET /scores.
type ScoresResponse struct {
	Scores []ScoreEntry `json:"scores"`
}

// ErrorResponse is a generic JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
