package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"parana-shopper/internal/basket"
	"parana-shopper/internal/catalog"
	"parana-shopper/internal/clock"
	"parana-shopper/internal/config"
	"parana-shopper/internal/console"
	"parana-shopper/internal/db"
	"parana-shopper/internal/logger"
	"parana-shopper/internal/metrics"
	"parana-shopper/internal/order"
	"parana-shopper/internal/shopper"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var initDBFunc = db.InitDB

func main() {
	if err := run(os.Stdin, os.Stdout); err != nil {
		if !errors.Is(err, console.ErrLoginFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer) error {
	cfg := config.LoadConfig()
	logger.Init("console")
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	ctx := logger.WithSessionID(context.Background(), uuid.NewString())

	deps, closeFn := newDeps(cfg, database)
	defer closeFn()

	err := console.New(in, out, deps).Run(ctx)
	if err != nil {
		logger.FromCtx(ctx).Warn("session ended", zap.Error(err))
	}
	return err
}

// newDeps builds the services the console drives. The returned func releases
// the optional Redis client.
func newDeps(cfg *config.Config, database *sql.DB) (console.Deps, func()) {
	clk := clock.NewSystem()
	stats := &metrics.Shop{}
	closeFn := func() {}

	var catalogRepo catalog.Repository = catalog.NewRepository(database)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		catalogRepo = catalog.NewCachedRepository(catalogRepo, client, catalog.WithTTL(cfg.CatalogCacheTTL))
		closeFn = func() { _ = client.Close() }
	}

	catalogSvc := catalog.NewService(catalogRepo)
	basketSvc := basket.NewService(basket.NewRepository(database), catalogSvc, clk, stats)

	return console.Deps{
		Clock:    clk,
		Shoppers: shopper.NewService(shopper.NewRepository(database)),
		Catalog:  catalogSvc,
		Baskets:  basketSvc,
		Orders:   order.NewService(order.NewRepository(database), basketSvc, stats),
	}, closeFn
}
