package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/matchserver/logger"
	"github.com/wfunc/matchserver/matchmaker"
	"github.com/wfunc/matchserver/models"
	"github.com/wfunc/matchserver/services"
	"github.com/wfunc/matchserver/session"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server. Services are registered by the caller
// through net/rpc before Start.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// AdminService exposes operational queries over net/rpc.
type AdminService struct {
	sessions   *session.Manager
	matchmaker *matchmaker.Matchmaker
	records    *services.RecordService
}

func NewAdminService(sessions *session.Manager, mm *matchmaker.Matchmaker, records *services.RecordService) *AdminService {
	return &AdminService{sessions: sessions, matchmaker: mm, records: records}
}

type StatsArgs struct{}

type StatsReply struct {
	OnlineSessions int
	ActiveMatches  int
	WaitingPlayers int
}

func (a *AdminService) Stats(args *StatsArgs, reply *StatsReply) error {
	reply.OnlineSessions = a.sessions.Count()
	reply.ActiveMatches = a.matchmaker.MatchCount()
	reply.WaitingPlayers = a.matchmaker.WaitingCount()
	return nil
}

type PlayerRecordArgs struct {
	Name string
}

type PlayerRecordReply struct {
	Record *models.PlayerRecord
}

func (a *AdminService) PlayerRecord(args *PlayerRecordArgs, reply *PlayerRecordReply) error {
	record, err := a.records.PlayerRecord(args.Name)
	if err != nil {
		return err
	}
	reply.Record = record
	return nil
}
