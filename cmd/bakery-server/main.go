// Package main is the entry point for the Biscoito Clicker bakery server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/biscoitoclicker/bakery/internal/domain/catalog"
	"github.com/biscoitoclicker/bakery/internal/engine"
	"github.com/biscoitoclicker/bakery/internal/events"
	"github.com/biscoitoclicker/bakery/internal/infra/storage"
	"github.com/biscoitoclicker/bakery/internal/network"
	"github.com/biscoitoclicker/bakery/internal/persistence"
	"github.com/biscoitoclicker/bakery/internal/platform/config"
	"github.com/biscoitoclicker/bakery/internal/platform/format"
	"github.com/biscoitoclicker/bakery/internal/platform/logger"
	"github.com/biscoitoclicker/bakery/internal/platform/metrics"
	"github.com/biscoitoclicker/bakery/internal/platform/optimization"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.Println("[BAKERY-SERVER] Initializing Biscoito Clicker bakery server...")

	cfg, err := config.LoadServerConfig()
	if err != nil {
		config.Exitf("bakery-server: %v", err)
	}
	bal, err := config.LoadBalance(cfg.BalanceFile)
	if err != nil {
		config.Exitf("bakery-server: %v", err)
	}
	bal.AutosaveInterval = cfg.AutosaveInterval
	tuning, err := optimization.ForProfile(cfg.Profile)
	if err != nil {
		config.Exitf("bakery-server: %v", err)
	}

	appLogger := logger.NewLogger()
	collector := metrics.Get()

	appLogger.Infof("Initializing SQLite database %q...", cfg.DBPath)
	db, err := storage.InitSQLite(cfg.DBPath)
	if err != nil {
		config.Exitf("bakery-server: failed to initialize SQLite: %v", err)
	}
	defer db.Close()
	db.SetMaxIdleConns(tuning.DBMaxIdleConns)

	eventRepo := storage.NewSQLiteEventRepository(db)
	appLogger.Info("Bootstrapping EventLog...")
	eventLog := events.NewEventLog(storage.NewEventLedger(eventRepo, collector), cfg.EventRetention)
	eventLog.OnPersistError(func(err error) {
		appLogger.Warnf("Event ledger write failed: %v", err)
	})

	cat := catalog.Default()
	bridge := persistence.NewBridge(storage.NewSQLiteBlobStore(db), cfg.SaveKey, cat, bal, appLogger)

	var rng engine.Random
	if cfg.Seed != 0 {
		rng = engine.NewRandom(cfg.Seed)
	}

	appLogger.Info("Bootstrapping Engine Subsystems...")
	gameEngine := engine.NewEngine(engine.Options{
		Catalog:      cat,
		Balance:      &bal,
		Random:       rng,
		Logger:       appLogger,
		Events:       eventLog,
		Persister:    bridge,
		Metrics:      collector,
		TickInterval: cfg.TickInterval,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := gameEngine.Load(ctx)
	switch {
	case err != nil:
		config.Exitf("bakery-server: failed to load save: %v", err)
	case res.Corrupt:
		appLogger.Warn("Save slot was unreadable. Starting a fresh bakery.")
	case !res.Found:
		appLogger.Info("No save found. Starting a fresh bakery.")
	default:
		appLogger.Infof("Welcome back to %s: %s cookies baked in %s away.",
			res.State.BakeryName, format.Cookies(res.Offline.Cookies), format.Duration(res.Offline.Away))
	}

	gameEngine.Start(ctx)

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(gameEngine, tuning, appLogger, collector)
	hubCtx, cancelHub := context.WithCancel(context.Background())
	defer cancelHub()
	go hub.Run(hubCtx)

	// Setup API Routes
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	network.NewBakeryAPI(gameEngine, appLogger).RegisterRoutes(mux)
	network.NewHistoryHandler(eventLog, eventRepo, appLogger).RegisterRoutes(mux)
	mux.HandleFunc("GET /metrics", collector.Handler())
	mux.HandleFunc("GET /metrics/prometheus", collector.PrometheusHandler())

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}
	go func() {
		log.Printf("[BAKERY-SERVER] HTTP API & WS Server listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[BAKERY-SERVER] Server running. Press Ctrl+C to exit.")
	<-ctx.Done()

	log.Println("[BAKERY-SERVER] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Warnf("HTTP shutdown: %v", err)
	}
	cancelHub()
	gameEngine.Stop()
	if err := gameEngine.Save(shutdownCtx); err != nil {
		appLogger.Errorf("Final save failed: %v", err)
	}
	eventLog.Flush()

	rec := optimization.Analyze(collector.Snapshot())
	if len(rec.Notes) > 0 {
		appLogger.Infof("Tuning notes: %s", strings.Join(rec.Notes, "; "))
	}
}
