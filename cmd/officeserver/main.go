// Package main provides the office simulation server binary: an HTTP
// listener exposing the websocket game endpoint plus a health check.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/finishlast/officesim/internal/config"
	"github.com/finishlast/officesim/internal/game/catalog"
	"github.com/finishlast/officesim/internal/game/office"
	"github.com/finishlast/officesim/internal/game/rng"
	"github.com/finishlast/officesim/internal/game/room"
	"github.com/finishlast/officesim/internal/observability"
	"github.com/finishlast/officesim/internal/server"
	"github.com/finishlast/officesim/internal/storage/postgres"
	"github.com/finishlast/officesim/internal/transport/ws"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting office server", zap.String("addr", cfg.Server.Addr()))

	// Load content
	contentStart := time.Now()
	actions, err := catalog.LoadActionsFromFile(cfg.Game.ActionsPath)
	if err != nil {
		logger.Fatal("loading action catalog", zap.Error(err))
	}
	layout, err := office.LoadLayoutFromFile(cfg.Game.LayoutPath)
	if err != nil {
		logger.Fatal("loading office layout", zap.Error(err))
	}
	roster, err := catalog.LoadRosterFromFile(cfg.Game.RosterPath)
	if err != nil {
		logger.Fatal("loading npc roster", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("actions", actions.Len()),
		zap.Int("areas", len(layout.Areas)),
		zap.Int("npcs", len(roster)),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	// Optional weekly-review persistence
	var pool *postgres.Pool
	var recorder room.WeeklyRecorder
	if cfg.Database.Enabled {
		pool, err = postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		if err := pool.Health(ctx, 5*time.Second); err != nil {
			logger.Fatal("database health check", zap.Error(err))
		}
		recorder = postgres.NewWeeklyReviewRepository(pool.DB())
		logger.Info("weekly review persistence enabled",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Name),
		)
	} else {
		logger.Info("weekly review persistence disabled")
	}

	newSource := func() rng.Source { return rng.NewCryptoSource() }
	if cfg.Game.Seed != 0 {
		seed := cfg.Game.Seed
		newSource = func() rng.Source { return rng.NewSeeded(seed) }
		logger.Warn("fixed game seed configured", zap.Int64("seed", seed))
	}

	manager := room.NewManager(room.ManagerOptions{
		Catalog:   actions,
		Layout:    layout,
		Roster:    roster,
		Logger:    logger,
		Recorder:  recorder,
		NewSource: newSource,
		MaxRooms:  cfg.Game.MaxRooms,
		EmptyTTL:  cfg.Game.EmptyRoomTTL,
	})

	wsHandler, err := ws.NewHandler(logger, manager)
	if err != nil {
		logger.Fatal("creating websocket handler", zap.Error(err))
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", wsHandler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"rooms":  manager.RoomCount(),
		})
	})

	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // websocket connections are long-lived
	}

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("http", server.NewHTTPService(logger, httpSrv, cfg.Server.ShutdownGrace))

	logger.Info("office server ready", zap.Duration("startup", time.Since(start)))

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("server exited with error", zap.Error(err))
	}

	manager.Close()
	if pool != nil {
		pool.Close()
	}
}
