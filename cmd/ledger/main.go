package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mymarket-be/internal/config"
	"mymarket-be/internal/db"
	"mymarket-be/internal/ledger"
	"mymarket-be/internal/logger"
	"mymarket-be/internal/metrics"
	"mymarket-be/internal/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	newDatabaseFunc = db.NewDatabase
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// openStore picks the balance backend from LEDGER_STORE.
func openStore(cfg *config.Config) (ledger.Store, func(), error) {
	switch cfg.LedgerStore {
	case "memory":
		return ledger.NewMemoryStore(cfg.LedgerInitialBalance), func() {}, nil
	case "postgres", "":
		database, err := newDatabaseFunc(cfg)
		if err != nil {
			return nil, nil, err
		}
		return ledger.NewPostgresStore(database, cfg.LedgerInitialBalance), func() { database.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown LEDGER_STORE %q (use 'memory' or 'postgres')", cfg.LedgerStore)
	}
}

func newLedgerServer(store ledger.Store) http.Handler {
	reg := metrics.NewRegistry()
	serverMetrics := metrics.NewServerMetrics(reg, "ledger")
	ledgerMetrics := metrics.NewLedgerMetrics(reg)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	})
	r.Handle("/metrics", metrics.Handler(reg))

	ledger.NewHandler(store, ledgerMetrics, serverMetrics).Routes(r)
	return r
}

func run() error {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := &http.Server{
		Addr:         ":" + cfg.LedgerPort,
		Handler:      newLedgerServer(store),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("ledger starting",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.LedgerStore),
		)
		errCh <- startServerFunc(srv)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.L().Info("ledger exited")
	return nil
}
