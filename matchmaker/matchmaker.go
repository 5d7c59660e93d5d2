// matchmaker/matchmaker.go
package matchmaker

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wfunc/matchserver/game"
	"github.com/wfunc/matchserver/logger"
	"github.com/wfunc/matchserver/network"
	"github.com/wfunc/matchserver/session"
	"github.com/wfunc/matchserver/timer"
)

type waiterEntry struct {
	sess *session.Session
	name string
}

type invitation struct {
	host    *session.Session
	name    string
	timerID int64
}

// Matchmaker owns the pending quick-match waiter, the room-code invitations
// and the set of live matches. One mutex guards all three registries so a
// pairing decision is indivisible with respect to every other connection.
type Matchmaker struct {
	mu        sync.Mutex
	waiter    *waiterEntry
	rooms     map[string]*invitation
	matches   map[string]*game.Match
	bySession map[string]string // session ID -> match ID

	timers  *timer.Manager
	roomTTL time.Duration
}

// New builds a Matchmaker. timers may be nil when roomTTL is zero.
func New(roomTTL time.Duration, timers *timer.Manager) *Matchmaker {
	return &Matchmaker{
		rooms:     make(map[string]*invitation),
		matches:   make(map[string]*game.Match),
		bySession: make(map[string]string),
		timers:    timers,
		roomTTL:   roomTTL,
	}
}

// RegisterQuickWaiter either queues s as the pending quick-match waiter or
// pairs it against the waiter already queued. The returned match is nil when
// s ended up waiting. The earlier arrival plays X.
func (m *Matchmaker) RegisterQuickWaiter(s *session.Session, nickname string) *game.Match {
	m.mu.Lock()
	if m.waiter == nil {
		m.waiter = &waiterEntry{sess: s, name: nickname}
		m.mu.Unlock()

		_ = s.Send(network.ServerMessage{Type: network.MsgTypeWaiting})
		return nil
	}

	x := m.waiter
	m.waiter = nil
	match := m.registerMatchLocked(x.sess, x.name, s, nickname)
	m.mu.Unlock()

	m.notifyStart(match, x.sess, x.name, s, nickname)
	return match
}

// CreateRoom registers a room invitation for s and returns the generated
// code. The code is unique among currently live invitations.
func (m *Matchmaker) CreateRoom(s *session.Session, nickname string) string {
	m.mu.Lock()
	code := m.generateCodeLocked()
	inv := &invitation{host: s, name: nickname}
	m.rooms[code] = inv
	if m.roomTTL > 0 && m.timers != nil {
		inv.timerID = m.timers.AddTimer(m.roomTTL, 0, func() {
			m.expireRoom(code)
		})
	}
	m.mu.Unlock()

	_ = s.Send(network.ServerMessage{Type: network.MsgTypeWaiting, RoomCode: code})
	return code
}

// JoinRoom consumes the invitation under code and pairs s against its host,
// host as X. A missing or already consumed code yields a join_error to s and
// a nil match; the caller closes the connection.
func (m *Matchmaker) JoinRoom(s *session.Session, nickname, code string) *game.Match {
	m.mu.Lock()
	inv, exists := m.rooms[code]
	if !exists {
		m.mu.Unlock()

		_ = s.Send(network.ServerMessage{
			Type:    network.MsgTypeJoinError,
			Message: "Room not found",
		})
		return nil
	}

	delete(m.rooms, code)
	if inv.timerID != 0 && m.timers != nil {
		m.timers.RemoveTimer(inv.timerID)
	}
	match := m.registerMatchLocked(inv.host, inv.name, s, nickname)
	m.mu.Unlock()

	m.notifyStart(match, inv.host, inv.name, s, nickname)
	return match
}

// Disconnect resolves a departing session in one critical section: if it
// sits in a live match, that match is returned so the caller can run the
// forfeit transition; otherwise its waiter slot and any hosted invitation
// are cleared. Doing both under one lock means a concurrent pairing either
// happened already (the match is returned) or can no longer consume the
// departing session.
func (m *Matchmaker) Disconnect(s *session.Session) (*game.Match, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if matchID, ok := m.bySession[s.GetID()]; ok {
		if match, ok := m.matches[matchID]; ok {
			return match, true
		}
	}
	m.removeConnectionLocked(s.GetID())
	return nil, false
}

// RemoveConnection clears any pre-match bookkeeping for s: the pending
// waiter slot and any invitation it hosts.
func (m *Matchmaker) RemoveConnection(s *session.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeConnectionLocked(s.GetID())
}

func (m *Matchmaker) removeConnectionLocked(sessionID string) {
	if m.waiter != nil && m.waiter.sess.GetID() == sessionID {
		m.waiter = nil
	}
	for code, inv := range m.rooms {
		if inv.host.GetID() == sessionID {
			delete(m.rooms, code)
			if inv.timerID != 0 && m.timers != nil {
				m.timers.RemoveTimer(inv.timerID)
			}
		}
	}
}

// FindMatchFor resolves a session ID to its live match.
func (m *Matchmaker) FindMatchFor(sessionID string) (*game.Match, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matchID, ok := m.bySession[sessionID]
	if !ok {
		return nil, false
	}
	match, ok := m.matches[matchID]
	return match, ok
}

// RemoveMatch drops a match and its session index entries. It reports
// whether the match was still live, so a retirement racing against another
// runs its side effects at most once.
func (m *Matchmaker) RemoveMatch(matchID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	match, exists := m.matches[matchID]
	if !exists {
		return false
	}
	delete(m.matches, matchID)
	xID, oID := match.PlayerIDs()
	delete(m.bySession, xID)
	delete(m.bySession, oID)
	return true
}

// MatchCount is the number of live matches.
func (m *Matchmaker) MatchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matches)
}

// WaitingCount is the number of connections parked in matchmaking: the
// quick-match waiter plus every unclaimed room host.
func (m *Matchmaker) WaitingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := len(m.rooms)
	if m.waiter != nil {
		count++
	}
	return count
}

// registerMatchLocked creates the match and indexes both participants.
// Caller holds m.mu.
func (m *Matchmaker) registerMatchLocked(x *session.Session, xName string, o *session.Session, oName string) *game.Match {
	match := game.NewMatch(x, xName, o, oName)
	m.matches[match.ID()] = match
	m.bySession[x.GetID()] = match.ID()
	m.bySession[o.GetID()] = match.ID()
	x.SetMatchID(match.ID())
	o.SetMatchID(match.ID())
	return match
}

// notifyStart tells each side its own symbol, the opponent's name and the
// full initial state. Delivery is best-effort on both sides.
func (m *Matchmaker) notifyStart(match *game.Match, x *session.Session, xName string, o *session.Session, oName string) {
	state := match.Snapshot()
	_ = x.Send(network.ServerMessage{
		Type:         network.MsgTypeMatchStart,
		YouAre:       int(game.X),
		OpponentName: oName,
		State:        state,
	})
	_ = o.Send(network.ServerMessage{
		Type:         network.MsgTypeMatchStart,
		YouAre:       int(game.O),
		OpponentName: xName,
		State:        state,
	})
}

// generateCodeLocked produces a 6-character upper-case code not currently in
// use. Caller holds m.mu.
func (m *Matchmaker) generateCodeLocked() string {
	for {
		code := strings.ToUpper(uuid.New().String()[:6])
		if _, taken := m.rooms[code]; !taken {
			return code
		}
	}
}

// expireRoom drops an invitation whose TTL ran out. An expired code then
// behaves exactly like one that never existed.
func (m *Matchmaker) expireRoom(code string) {
	m.mu.Lock()
	inv, exists := m.rooms[code]
	if exists {
		delete(m.rooms, code)
	}
	m.mu.Unlock()

	if exists {
		logger.Log.Infof("Room %s expired before anyone joined (host %s)", code, inv.host.GetID())
	}
}
