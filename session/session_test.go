package session

import (
	"net"
	"testing"

	"github.com/wfunc/matchserver/network"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct {
	sent int
}

func (m *MockConnection) Send(v any) error                           { m.sent++; return nil }
func (m *MockConnection) ReadMessage() (*network.ClientMessage, error) { return nil, nil }
func (m *MockConnection) Close() error                               { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                       { return &net.TCPAddr{} }

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sessionID := "test_session_1"
	sess := NewSession(sessionID, &MockConnection{})

	manager.Add(sess)
	if manager.Count() != 1 {
		t.Fatalf("Expected session count to be 1, got %d", manager.Count())
	}

	retrievedSess, exists := manager.Get(sessionID)
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if retrievedSess != sess {
		t.Fatal("Get should return the same session instance")
	}

	manager.Remove(sessionID)
	if manager.Count() != 0 {
		t.Fatalf("Expected session count to be 0 after removal, got %d", manager.Count())
	}

	_, exists = manager.Get(sessionID)
	if exists {
		t.Fatal("Get should not find the removed session")
	}
}

func TestSession_Send(t *testing.T) {
	conn := &MockConnection{}
	sess := NewSession("test_session", conn)

	before := sess.LastActive
	if err := sess.Send(map[string]string{"type": "waiting"}); err != nil {
		t.Fatalf("Send should not fail: %v", err)
	}
	if conn.sent != 1 {
		t.Errorf("Expected one message on the connection, got %d", conn.sent)
	}
	if sess.LastActive.Before(before) {
		t.Error("Send should refresh LastActive")
	}
}

func TestSession_MatchID(t *testing.T) {
	sess := NewSession("test_session", &MockConnection{})

	if sess.GetMatchID() != "" {
		t.Error("A fresh session has no match")
	}
	sess.SetMatchID("match_abc")
	if sess.GetMatchID() != "match_abc" {
		t.Errorf("Expected match_abc, got %q", sess.GetMatchID())
	}
}
