package main

import (
	"net/rpc"

	"github.com/wfunc/matchserver/config"
	"github.com/wfunc/matchserver/logger"
	"github.com/wfunc/matchserver/matchmaker"
	"github.com/wfunc/matchserver/monitor"
	"github.com/wfunc/matchserver/persistence"
	matchserver_rpc "github.com/wfunc/matchserver/rpc"
	"github.com/wfunc/matchserver/server"
	"github.com/wfunc/matchserver/services"
	"github.com/wfunc/matchserver/session"
	"github.com/wfunc/matchserver/timer"
)

func main() {
	// Initialize logger
	logger.Init()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Match archiving is optional; without a database the server still runs.
	var db persistence.Database
	if cfg.Database.Enabled {
		gormDB, err := persistence.NewGormPostgreSQL(
			cfg.Database.Postgres.Host,
			cfg.Database.Postgres.Port,
			cfg.Database.Postgres.User,
			cfg.Database.Postgres.Password,
			cfg.Database.Postgres.DBName,
		)
		if err != nil {
			logger.Log.Fatalf("Failed to connect to database: %v", err)
		}
		db = gormDB
		logger.Log.Info("Database connection successful.")
	} else {
		logger.Log.Info("Match archiving disabled, no database configured.")
	}
	records := services.NewRecordService(db)

	// Metrics
	mon := monitor.NewMonitor("matchserver")
	mon.StartServer(cfg.Server.MetricsAddress)

	// Matchmaking registries
	timers := timer.NewManager()
	mm := matchmaker.New(cfg.Matchmaking.RoomTTL, timers)
	sessions := session.NewManager()

	// Admin RPC
	rpcServer, err := matchserver_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	rpc.Register(matchserver_rpc.NewAdminService(sessions, mm, records))
	go rpcServer.Start()
	defer rpcServer.Stop()

	// Game server
	gameServer := server.NewGameServer(cfg.Server.HTTPAddress, sessions, mm, records, mon)
	logger.Log.Infof("Starting match server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
