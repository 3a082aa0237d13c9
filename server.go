package main

import (
	"context"
	"fmt"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"

	"github.com/dp-veritas/nzdpu-mcp-server/pkg/benchmark"
	"github.com/dp-veritas/nzdpu-mcp-server/pkg/config"
	"github.com/dp-veritas/nzdpu-mcp-server/pkg/store"
	"github.com/dp-veritas/nzdpu-mcp-server/utils"
)

// Server wires the record store, benchmark engine, and tool surfaces
// together behind one router.
type Server struct {
	router    *mux.Router
	config    *config.Config
	store     *store.SQLiteStore
	engine    *benchmark.Engine
	mcpServer *MCPServer
	cron      *cron.Cron
}

// NewServer creates a server over the dataset named in the configuration.
func NewServer(cfg *config.Config) (*Server, error) {
	recordStore, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}

	engine := benchmark.NewEngine(
		recordStore,
		benchmark.NewChecker(),
		benchmark.NewAssessor(benchmark.DefaultTables()),
		cfg.MinCohortSize,
	)

	s := &Server{
		router: mux.NewRouter(),
		config: cfg,
		store:  recordStore,
		engine: engine,
		cron:   cron.New(),
	}
	s.mcpServer = NewMCPServer(engine)
	s.setupRoutes()

	// The dataset file is replaced by the ingestion tooling out of band;
	// rebuild the company index on a schedule so new companies appear
	// without a restart.
	if cfg.RefreshSchedule != "" {
		if _, err := s.cron.AddFunc(cfg.RefreshSchedule, s.refreshIndex); err != nil {
			recordStore.Close()
			return nil, fmt.Errorf("invalid refresh schedule %q: %w", cfg.RefreshSchedule, err)
		}
		s.cron.Start()
	}

	utils.GetLogger().Info("record store opened",
		utils.String("path", cfg.DatabasePath),
		utils.Int("companies", recordStore.CompanyCount()),
		utils.Component("server"))

	return s, nil
}

func (s *Server) refreshIndex() {
	if err := s.store.RefreshIndex(); err != nil {
		utils.GetLogger().Error("failed to refresh company index", err, utils.Component("server"))
		return
	}
	utils.GetLogger().Info("company index refreshed",
		utils.Int("companies", s.store.CompanyCount()),
		utils.Component("server"))
}

// Shutdown stops the refresh schedule and closes the record store.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cron != nil {
		stopped := s.cron.Stop()
		select {
		case <-stopped.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := s.store.Close(); err != nil {
		return fmt.Errorf("failed to close record store: %w", err)
	}

	utils.GetLogger().Info("shutdown complete", utils.Component("server"))
	return nil
}
