// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/wfunc/matchserver/network"
)

// Session is one connected client. The ID is an opaque unique token assigned
// at accept time and is the only identity used for match ownership lookups.
type Session struct {
	ID         string
	Conn       network.Connection
	Nickname   string
	MatchID    string
	CreatedAt  time.Time
	LastActive time.Time
	mutex      sync.RWMutex
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		LastActive: now,
	}
}

func (s *Session) Send(v any) error {
	s.mutex.Lock()
	s.LastActive = time.Now()
	s.mutex.Unlock()
	return s.Conn.Send(v)
}

func (s *Session) GetID() string {
	return s.ID
}

func (s *Session) SetMatchID(matchID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.MatchID = matchID
}

func (s *Session) GetMatchID() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.MatchID
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Manager tracks every live session.
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}
