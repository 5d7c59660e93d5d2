package game

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wfunc/matchserver/broadcast"
	"github.com/wfunc/matchserver/models"
	"github.com/wfunc/matchserver/network"
)

// Player is what a match needs from a connected client: an identity to
// resolve symbols and a channel to push state updates into.
type Player interface {
	GetID() string
	Send(v any) error
}

type participant struct {
	player Player
	name   string
}

// Match is the authoritative state of one two-player game. All mutation goes
// through the Apply* transitions, each of which is one critical section:
// validate, mutate, detect the follow-up state and broadcast, all under the
// match mutex. Illegal or out-of-turn actions are dropped without effect.
type Match struct {
	id        string
	board     [BoardSize]Cell
	turn      Cell
	finished  bool
	winner    Cell
	playerX   participant
	playerO   participant
	moves     int
	startedAt time.Time
	mu        sync.Mutex
}

// NewMatch creates a fresh in-progress match. The first participant plays X
// and moves first.
func NewMatch(x Player, xName string, o Player, oName string) *Match {
	return &Match{
		id:        "match_" + uuid.New().String()[:8],
		turn:      X,
		playerX:   participant{player: x, name: xName},
		playerO:   participant{player: o, name: oName},
		startedAt: time.Now(),
	}
}

func (m *Match) ID() string {
	return m.id
}

// PlayerIDs returns the participant session IDs, X first.
func (m *Match) PlayerIDs() (string, string) {
	return m.playerX.player.GetID(), m.playerO.player.GetID()
}

// SymbolFor resolves a session ID to its symbol, Empty for non-participants.
func (m *Match) SymbolFor(sessionID string) Cell {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.symbolForLocked(sessionID)
}

func (m *Match) symbolForLocked(sessionID string) Cell {
	switch sessionID {
	case m.playerX.player.GetID():
		return X
	case m.playerO.player.GetID():
		return O
	}
	return Empty
}

func (m *Match) Finished() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finished
}

func (m *Match) Winner() Cell {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.winner
}

// Duration is the wall time since the match started.
func (m *Match) Duration() time.Duration {
	return time.Since(m.startedAt)
}

// ApplyMove places the caller's symbol at index, runs win/draw detection and
// broadcasts the updated state to both players. It reports whether the move
// was accepted. A finished match, a foreign session, an out-of-range index,
// an out-of-turn caller or an occupied cell all drop the move silently.
func (m *Match) ApplyMove(sessionID string, index int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.finished {
		return false
	}
	if index < 0 || index >= BoardSize {
		return false
	}
	symbol := m.symbolForLocked(sessionID)
	if symbol == Empty || symbol != m.turn {
		return false
	}
	if m.board[index] != Empty {
		return false
	}

	m.board[index] = symbol
	m.moves++

	if w := DetectOutcome(m.board); w != Empty {
		m.finished = true
		m.winner = w
	} else if boardFull(m.board) {
		m.finished = true
		m.winner = Empty
	} else {
		m.turn = opponent(m.turn)
	}

	// The broadcast after a finishing move is the only game-end notification.
	m.broadcastLocked()
	return true
}

// ApplyTimeout passes the caller's turn without touching the board. A
// client-side turn timer expiring does not end the game.
func (m *Match) ApplyTimeout(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.finished {
		return false
	}
	symbol := m.symbolForLocked(sessionID)
	if symbol == Empty || symbol != m.turn {
		return false
	}

	m.turn = opponent(m.turn)
	m.broadcastLocked()
	return true
}

// ApplyLeave forfeits the match to the caller's opponent. On an already
// finished match it is an idempotent no-op.
func (m *Match) ApplyLeave(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	symbol := m.symbolForLocked(sessionID)
	if symbol == Empty || m.finished {
		return false
	}

	m.finished = true
	m.winner = opponent(symbol)
	m.broadcastLocked()
	return true
}

// ApplyDisconnect is the forfeit path for a participant whose channel closed
// unexpectedly. Same effect as ApplyLeave; a match that already finished
// stays untouched and nothing is broadcast.
func (m *Match) ApplyDisconnect(sessionID string) bool {
	return m.ApplyLeave(sessionID)
}

// Snapshot returns the wire representation of the current state.
func (m *Match) Snapshot() models.MatchStateDoc {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Match) snapshotLocked() models.MatchStateDoc {
	board := make([]int, BoardSize)
	for i, cell := range m.board {
		board[i] = int(cell)
	}
	return models.MatchStateDoc{
		MatchID:  m.id,
		Board:    board,
		Turn:     int(m.turn),
		Finished: m.finished,
		Winner:   int(m.winner),
		Players: models.MatchPlayersDoc{
			X: models.MatchPlayerDoc{Name: m.playerX.name},
			O: models.MatchPlayerDoc{Name: m.playerO.name},
		},
	}
}

// broadcastLocked pushes a state_update to both players best-effort. A dead
// connection on one side never blocks or fails the other.
func (m *Match) broadcastLocked() {
	msg := network.ServerMessage{
		Type:  network.MsgTypeStateUpdate,
		State: m.snapshotLocked(),
	}
	broadcast.BestEffort(msg, m.playerX.player, m.playerO.player)
}

// Record builds the archive row for a finished match.
func (m *Match) Record() *models.MatchRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &models.MatchRecord{
		MatchID:  m.id,
		XName:    m.playerX.name,
		OName:    m.playerO.name,
		Winner:   int(m.winner),
		Moves:    m.moves,
		Duration: int(time.Since(m.startedAt).Seconds()),
	}
}
