package matchmaker

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/wfunc/matchserver/game"
	"github.com/wfunc/matchserver/logger"
	"github.com/wfunc/matchserver/network"
	"github.com/wfunc/matchserver/session"
	"github.com/wfunc/matchserver/timer"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

// mockConnection is a test double for the network.Connection interface that
// records every message sent to it.
type mockConnection struct {
	mu       sync.Mutex
	messages []network.ServerMessage
}

func (c *mockConnection) Send(v any) error {
	msg, _ := v.(network.ServerMessage)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	return nil
}

func (c *mockConnection) ReadMessage() (*network.ClientMessage, error) { return nil, nil }
func (c *mockConnection) Close() error                                 { return nil }
func (c *mockConnection) RemoteAddr() net.Addr                         { return &net.TCPAddr{} }

func (c *mockConnection) last(t *testing.T) network.ServerMessage {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) == 0 {
		t.Fatal("no messages sent")
	}
	return c.messages[len(c.messages)-1]
}

func newTestSession(id string) (*session.Session, *mockConnection) {
	conn := &mockConnection{}
	return session.NewSession(id, conn), conn
}

func TestRegisterQuickWaiter_FirstArrivalWaits(t *testing.T) {
	mm := New(0, nil)
	sess, conn := newTestSession("s1")

	if match := mm.RegisterQuickWaiter(sess, "Ann"); match != nil {
		t.Fatal("First arrival should wait, not pair")
	}
	if msg := conn.last(t); msg.Type != network.MsgTypeWaiting {
		t.Errorf("Expected a waiting message, got %q", msg.Type)
	}
	if mm.WaitingCount() != 1 {
		t.Errorf("Expected 1 waiting, got %d", mm.WaitingCount())
	}
}

func TestRegisterQuickWaiter_SecondArrivalPairs(t *testing.T) {
	mm := New(0, nil)
	sessA, connA := newTestSession("s1")
	sessB, connB := newTestSession("s2")

	mm.RegisterQuickWaiter(sessA, "Ann")
	match := mm.RegisterQuickWaiter(sessB, "Bob")
	if match == nil {
		t.Fatal("Second arrival should pair immediately")
	}

	if match.SymbolFor("s1") != game.X {
		t.Error("First arrival should play X")
	}
	if match.SymbolFor("s2") != game.O {
		t.Error("Second arrival should play O")
	}

	msgA, msgB := connA.last(t), connB.last(t)
	if msgA.Type != network.MsgTypeMatchStart || msgB.Type != network.MsgTypeMatchStart {
		t.Fatalf("Both sides should get match_start, got %q and %q", msgA.Type, msgB.Type)
	}
	if msgA.YouAre != 1 || msgA.OpponentName != "Bob" {
		t.Errorf("A should be told youAre=1, opponent Bob, got %+v", msgA)
	}
	if msgB.YouAre != 2 || msgB.OpponentName != "Ann" {
		t.Errorf("B should be told youAre=2, opponent Ann, got %+v", msgB)
	}

	if mm.WaitingCount() != 0 {
		t.Error("Pairing should clear the waiter slot")
	}
	if mm.MatchCount() != 1 {
		t.Errorf("Expected exactly one live match, got %d", mm.MatchCount())
	}
}

func TestCreateRoom_GeneratesCodeAndWaits(t *testing.T) {
	mm := New(0, nil)
	sess, conn := newTestSession("host")

	code := mm.CreateRoom(sess, "Ann")
	if len(code) != 6 {
		t.Errorf("Expected a 6-character room code, got %q", code)
	}

	msg := conn.last(t)
	if msg.Type != network.MsgTypeWaiting || msg.RoomCode != code {
		t.Errorf("Host should be told it is waiting with the code, got %+v", msg)
	}
	if mm.WaitingCount() != 1 {
		t.Errorf("Expected 1 waiting host, got %d", mm.WaitingCount())
	}
}

func TestJoinRoom_PairsHostAsX(t *testing.T) {
	mm := New(0, nil)
	host, _ := newTestSession("host")
	joiner, joinerConn := newTestSession("joiner")

	code := mm.CreateRoom(host, "Ann")
	match := mm.JoinRoom(joiner, "Bob", code)
	if match == nil {
		t.Fatal("Joining a live room should pair")
	}
	if match.SymbolFor("host") != game.X || match.SymbolFor("joiner") != game.O {
		t.Error("Host should play X, joiner O")
	}
	if msg := joinerConn.last(t); msg.YouAre != 2 || msg.OpponentName != "Ann" {
		t.Errorf("Joiner should be told youAre=2, opponent Ann, got %+v", msg)
	}

	// The invitation is consumed, a second join fails.
	late, lateConn := newTestSession("late")
	if mm.JoinRoom(late, "Eve", code) != nil {
		t.Fatal("A consumed room code must not pair again")
	}
	if msg := lateConn.last(t); msg.Type != network.MsgTypeJoinError {
		t.Errorf("Expected join_error, got %q", msg.Type)
	}
	if mm.MatchCount() != 1 {
		t.Errorf("Expected one match, got %d", mm.MatchCount())
	}
}

func TestJoinRoom_UnknownCode(t *testing.T) {
	mm := New(0, nil)
	joiner, conn := newTestSession("joiner")

	if mm.JoinRoom(joiner, "Bob", "NOPE42") != nil {
		t.Fatal("Joining an unknown code must not create a match")
	}
	msg := conn.last(t)
	if msg.Type != network.MsgTypeJoinError || msg.Message != "Room not found" {
		t.Errorf("Expected a 'Room not found' join_error, got %+v", msg)
	}
	if mm.MatchCount() != 0 {
		t.Error("No match should exist")
	}
}

func TestRemoveConnection_ClearsWaiterAndRooms(t *testing.T) {
	mm := New(0, nil)
	waiter, _ := newTestSession("waiter")
	host, _ := newTestSession("host")

	mm.RegisterQuickWaiter(waiter, "Ann")
	code := mm.CreateRoom(host, "Bob")

	mm.RemoveConnection(waiter)
	mm.RemoveConnection(host)
	if mm.WaitingCount() != 0 {
		t.Errorf("Expected no waiting entries, got %d", mm.WaitingCount())
	}

	// The vacated slots behave like fresh ones.
	next, _ := newTestSession("next")
	if mm.RegisterQuickWaiter(next, "Eve") != nil {
		t.Error("After waiter removal, the next quick arrival should wait")
	}
	joiner, joinerConn := newTestSession("joiner")
	if mm.JoinRoom(joiner, "Zed", code) != nil {
		t.Error("A removed host's code must not pair")
	}
	if msg := joinerConn.last(t); msg.Type != network.MsgTypeJoinError {
		t.Errorf("Expected join_error, got %q", msg.Type)
	}
}

func TestFindMatchFor_And_RemoveMatch(t *testing.T) {
	mm := New(0, nil)
	sessA, _ := newTestSession("s1")
	sessB, _ := newTestSession("s2")

	mm.RegisterQuickWaiter(sessA, "Ann")
	match := mm.RegisterQuickWaiter(sessB, "Bob")

	found, ok := mm.FindMatchFor("s1")
	if !ok || found != match {
		t.Fatal("FindMatchFor should resolve a participant to its match")
	}
	if _, ok := mm.FindMatchFor("stranger"); ok {
		t.Error("Non-participants should not resolve to any match")
	}

	if !mm.RemoveMatch(match.ID()) {
		t.Error("Removing a live match should report true")
	}
	if _, ok := mm.FindMatchFor("s1"); ok {
		t.Error("RemoveMatch should clear the session index")
	}
	if mm.MatchCount() != 0 {
		t.Error("RemoveMatch should drop the match")
	}

	// Removing twice is harmless and reports false, so only one caller
	// gets to archive the match.
	if mm.RemoveMatch(match.ID()) {
		t.Error("Removing an already-removed match should report false")
	}
}

func TestDisconnect_ReturnsLiveMatchForForfeit(t *testing.T) {
	mm := New(0, nil)
	sessA, _ := newTestSession("s1")
	sessB, connB := newTestSession("s2")

	// A queues up and B pairs before A's disconnect is processed. The
	// disconnect must resolve to the match so the forfeit runs, not fall
	// through to waiter cleanup.
	mm.RegisterQuickWaiter(sessA, "Ann")
	match := mm.RegisterQuickWaiter(sessB, "Bob")

	got, ok := mm.Disconnect(sessA)
	if !ok || got != match {
		t.Fatal("Disconnect of a paired session should return its match")
	}

	got.ApplyDisconnect("s1")
	state := connB.last(t)
	if state.Type != network.MsgTypeStateUpdate {
		t.Fatalf("Expected a state_update after the forfeit, got %q", state.Type)
	}
	if !got.Finished() || got.Winner() != game.O {
		t.Errorf("Disconnect of X should forfeit to O, got winner %d", got.Winner())
	}
}

func TestDisconnect_ClearsWaiterAndRooms(t *testing.T) {
	mm := New(0, nil)
	waiter, _ := newTestSession("waiter")
	host, _ := newTestSession("host")

	mm.RegisterQuickWaiter(waiter, "Ann")
	code := mm.CreateRoom(host, "Bob")

	if _, ok := mm.Disconnect(waiter); ok {
		t.Error("Disconnect of an unpaired waiter should not return a match")
	}
	if _, ok := mm.Disconnect(host); ok {
		t.Error("Disconnect of a waiting host should not return a match")
	}
	if mm.WaitingCount() != 0 {
		t.Errorf("Expected no waiting entries, got %d", mm.WaitingCount())
	}

	joiner, joinerConn := newTestSession("joiner")
	if mm.JoinRoom(joiner, "Zed", code) != nil {
		t.Error("A disconnected host's code must not pair")
	}
	if msg := joinerConn.last(t); msg.Type != network.MsgTypeJoinError {
		t.Errorf("Expected join_error, got %q", msg.Type)
	}
}

func TestRoomTTL_ExpiredCodeBehavesLikeUnknown(t *testing.T) {
	timers := timer.NewManager()
	defer timers.Stop()

	mm := New(time.Millisecond, timers)
	host, _ := newTestSession("host")
	code := mm.CreateRoom(host, "Ann")

	// The timer loop ticks every 100ms; give it time to sweep.
	deadline := time.Now().Add(2 * time.Second)
	for mm.WaitingCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if mm.WaitingCount() != 0 {
		t.Fatal("Invitation should expire after its TTL")
	}

	joiner, conn := newTestSession("joiner")
	if mm.JoinRoom(joiner, "Bob", code) != nil {
		t.Fatal("An expired code must not pair")
	}
	if msg := conn.last(t); msg.Type != network.MsgTypeJoinError {
		t.Errorf("Expected join_error for an expired code, got %q", msg.Type)
	}
}
