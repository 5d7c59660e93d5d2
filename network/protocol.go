package network

// Client message types.
const (
	MsgTypeQuick   = "quick"
	MsgTypeCreate  = "create"
	MsgTypeJoin    = "join"
	MsgTypeMove    = "move"
	MsgTypeTimeout = "timeout"
	MsgTypeLeave   = "leave"
)

// Server message types.
const (
	MsgTypeWaiting     = "waiting"
	MsgTypeJoinError   = "join_error"
	MsgTypeMatchStart  = "match_start"
	MsgTypeStateUpdate = "state_update"
)

// ClientMessage is every document a client may send. The first message on a
// connection is the handshake (nickname + quick/create/join); after that only
// move/timeout/leave are meaningful.
type ClientMessage struct {
	Type     string `json:"type"`
	Nickname string `json:"nickname,omitempty"`
	RoomCode string `json:"roomCode,omitempty"`
	// Index is a pointer so a "move" without an index is distinguishable
	// from a move at cell 0.
	Index *int `json:"index,omitempty"`
}

// ServerMessage is the envelope for everything the server sends.
type ServerMessage struct {
	Type         string `json:"type"`
	RoomCode     string `json:"roomCode,omitempty"`
	Message      string `json:"message,omitempty"`
	YouAre       int    `json:"youAre,omitempty"`
	OpponentName string `json:"opponentName,omitempty"`
	State        any    `json:"state,omitempty"`
}
