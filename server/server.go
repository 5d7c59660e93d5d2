package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wfunc/matchserver/game"
	"github.com/wfunc/matchserver/logger"
	"github.com/wfunc/matchserver/matchmaker"
	"github.com/wfunc/matchserver/monitor"
	"github.com/wfunc/matchserver/network"
	"github.com/wfunc/matchserver/services"
	"github.com/wfunc/matchserver/session"
)

// GameServer accepts websocket connections and runs one handler goroutine
// per connection: handshake, matchmaking, then the action loop. All shared
// state lives in the injected matchmaker and session manager.
type GameServer struct {
	addr           string
	upgrader       websocket.Upgrader
	sessionManager *session.Manager
	matchmaker     *matchmaker.Matchmaker
	records        *services.RecordService
	monitor        *monitor.Monitor
	shutdownChan   chan struct{}
}

// NewGameServer wires the server. records and mon may be nil; archiving and
// metrics are then disabled.
func NewGameServer(addr string, sessions *session.Manager, mm *matchmaker.Matchmaker, records *services.RecordService, mon *monitor.Monitor) *GameServer {
	return &GameServer{
		addr:           addr,
		sessionManager: sessions,
		matchmaker:     mm,
		records:        records,
		monitor:        mon,
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (s *GameServer) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, mux)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
}

// HandleWebSocket upgrades an HTTP request and runs the connection handler.
// Exported so tests can mount it on their own mux.
func (s *GameServer) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)

	if s.monitor != nil {
		s.monitor.IncOnlinePlayers()
	}
	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.cleanupConnection(sess)
		s.sessionManager.Remove(sess.GetID())
		if s.monitor != nil {
			s.monitor.DecOnlinePlayers()
		}
		wsConn.Close()
	}()

	// The handshake is the first message: nickname plus quick/create/join.
	// Anything unreadable closes the connection with no further processing.
	handshake, err := wsConn.ReadMessage()
	if err != nil {
		return
	}
	if !s.handleHandshake(sess, handshake) {
		return
	}

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			msg, err := wsConn.ReadMessage()
			if err != nil {
				return
			}
			if s.monitor != nil {
				s.monitor.IncMessagesReceived()
			}
			s.handleAction(sess, msg)
		}
	}
}

// handleHandshake routes the connection into matchmaking. It reports false
// when the connection must close (failed room join).
func (s *GameServer) handleHandshake(sess *session.Session, msg *network.ClientMessage) bool {
	nickname := msg.Nickname
	if nickname == "" {
		nickname = "Guest"
	}
	sess.Nickname = nickname

	switch msg.Type {
	case network.MsgTypeCreate:
		code := s.matchmaker.CreateRoom(sess, nickname)
		logger.Log.Infof("Session %s created room %s", sess.GetID(), code)

	case network.MsgTypeJoin:
		match := s.matchmaker.JoinRoom(sess, nickname, msg.RoomCode)
		if match == nil {
			logger.Log.Infof("Session %s failed to join room %q", sess.GetID(), msg.RoomCode)
			return false
		}
		s.matchStarted(match)

	default:
		// Quick match, also the fallback for an absent type.
		if match := s.matchmaker.RegisterQuickWaiter(sess, nickname); match != nil {
			s.matchStarted(match)
		}
	}

	s.updateGauges()
	return true
}

func (s *GameServer) handleAction(sess *session.Session, msg *network.ClientMessage) {
	match, ok := s.matchmaker.FindMatchFor(sess.GetID())
	if !ok {
		// Not in a match: nothing a client sends here has any effect.
		return
	}

	switch msg.Type {
	case network.MsgTypeMove:
		if msg.Index == nil {
			return
		}
		if match.ApplyMove(sess.GetID(), *msg.Index) && match.Finished() {
			s.retireMatch(match)
		}

	case network.MsgTypeTimeout:
		match.ApplyTimeout(sess.GetID())

	case network.MsgTypeLeave:
		if match.ApplyLeave(sess.GetID()) {
			s.retireMatch(match)
		}

	default:
		logger.Log.Infof("Ignoring message type %q from session %s", msg.Type, sess.GetID())
	}
}

// cleanupConnection runs the disconnect transition: forfeit any live match,
// otherwise clear matchmaking bookkeeping.
func (s *GameServer) cleanupConnection(sess *session.Session) {
	if match, ok := s.matchmaker.Disconnect(sess); ok {
		match.ApplyDisconnect(sess.GetID())
		s.retireMatch(match)
	}
	s.updateGauges()
}

// matchStarted records metrics for a fresh pairing.
func (s *GameServer) matchStarted(match *game.Match) {
	logger.Log.Infof("Match %s started", match.ID())
	if s.monitor != nil {
		s.monitor.IncMatchesStarted()
	}
}

// retireMatch removes a terminal match from the active set and archives it.
func (s *GameServer) retireMatch(match *game.Match) {
	if !s.matchmaker.RemoveMatch(match.ID()) {
		return
	}
	logger.Log.Infof("Match %s ended, winner %d", match.ID(), match.Winner())

	if s.monitor != nil {
		s.monitor.ObserveMatchDuration(match.Duration())
	}
	if s.records != nil {
		go s.records.ArchiveMatch(match.Record())
	}
	s.updateGauges()
}

func (s *GameServer) updateGauges() {
	if s.monitor == nil {
		return
	}
	s.monitor.SetActiveMatches(s.matchmaker.MatchCount())
	s.monitor.SetWaitingPlayers(s.matchmaker.WaitingCount())
}
