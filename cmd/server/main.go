package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parana-shopper/internal/auth"
	"parana-shopper/internal/basket"
	"parana-shopper/internal/catalog"
	"parana-shopper/internal/clock"
	"parana-shopper/internal/config"
	"parana-shopper/internal/db"
	"parana-shopper/internal/logger"
	"parana-shopper/internal/metrics"
	"parana-shopper/internal/middleware"
	"parana-shopper/internal/order"
	"parana-shopper/internal/rest"
	"parana-shopper/internal/shopper"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = listenAndServe
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router, err := newServer(ctx, cfg, database)
	if err != nil {
		return err
	}

	logger.L().Info("shopper API listening", zap.String("port", cfg.AppPort))
	return startServerFunc(ctx, ":"+cfg.AppPort, router)
}

// newServer wires repositories, services and the HTTP router. The catalog is
// served through Redis when REDIS_ADDR is set.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) (http.Handler, error) {
	clk := clock.NewSystem()
	stats := &metrics.Shop{}

	issuer, err := auth.NewIssuer(cfg.JWTSecret, auth.DefaultTokenTTL, clk)
	if err != nil {
		return nil, err
	}

	var (
		catalogRepo catalog.Repository = catalog.NewRepository(database)
		cacheStats  rest.CacheStats
	)
	if cfg.RedisAddr != "" {
		cached := catalog.NewCachedRepository(catalogRepo,
			redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}),
			catalog.WithTTL(cfg.CatalogCacheTTL),
		)
		catalogRepo, cacheStats = cached, cached
	}

	catalogSvc := catalog.NewService(catalogRepo)
	basketSvc := basket.NewService(basket.NewRepository(database), catalogSvc, clk, stats)
	orderSvc := order.NewService(order.NewRepository(database), basketSvc, stats)
	shopperSvc := shopper.NewService(shopper.NewRepository(database))

	limiter := middleware.NewLimiter()
	go limiter.Run(ctx)

	return rest.NewRouter(rest.Deps{
		Clock:    clk,
		Issuer:   issuer,
		Limiter:  limiter,
		Shoppers: shopperSvc,
		Catalog:  catalogSvc,
		Baskets:  basketSvc,
		Orders:   orderSvc,
		Stats:    stats,
		Cache:    cacheStats,
	}), nil
}

func listenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
