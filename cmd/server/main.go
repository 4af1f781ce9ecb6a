package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mymarket-be/internal/cache"
	"mymarket-be/internal/cart"
	"mymarket-be/internal/config"
	"mymarket-be/internal/db"
	"mymarket-be/internal/logger"
	"mymarket-be/internal/metrics"
	"mymarket-be/internal/middleware"
	"mymarket-be/internal/order"
	"mymarket-be/internal/payment"
	"mymarket-be/internal/transport"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Seams replaced in tests.
var (
	initDBFunc      = db.InitDB
	newRedisFunc    = newRedisClient
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func newRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// newServer wires the storefront API. The returned func releases background workers.
func newServer(cfg *config.Config, database *sql.DB, rdb redis.Cmdable) (http.Handler, func()) {
	reg := metrics.NewRegistry()
	serverMetrics := metrics.NewServerMetrics(reg, "storefront")
	checkoutMetrics := metrics.NewCheckoutMetrics(reg)

	cartCache := cache.NewRedisCartCache(rdb, cfg.CartViewTTL)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, cartCache)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo)

	ledgerClient := payment.NewLedgerClient(cfg.LedgerBaseURL, cfg.LedgerTimeout)
	checkoutSvc := order.NewCheckoutService(cartRepo, orderRepo, ledgerClient, cartCache, checkoutMetrics)

	limiter := middleware.NewRateLimiter()

	router := transport.NewRouter(transport.RouterDeps{
		Handler:  transport.NewHandler(cartSvc, checkoutSvc, orderSvc),
		Limiter:  limiter,
		Server:   serverMetrics,
		Registry: reg,
	})

	return router, limiter.Stop
}

func run() error {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	rdb := newRedisFunc(cfg)
	defer rdb.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		// Cart views fall back to postgres while redis is away.
		logger.L().Warn("redis unreachable at startup", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	cancelPing()

	handler, cleanup := newServer(cfg, database, rdb)
	defer cleanup()

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("storefront starting", zap.String("addr", srv.Addr))
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

	logger.L().Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.L().Info("server exited")
	return nil
}
