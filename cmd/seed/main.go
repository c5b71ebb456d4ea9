package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logging"
	broadcastrepo "storefront/internal/repository/broadcast"
	offeringrepo "storefront/internal/repository/offering"
	productrepo "storefront/internal/repository/product"
	settingsrepo "storefront/internal/repository/settings"
	"storefront/internal/seed"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New("seed", logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := seed.Apply(ctx, seed.Targets{
		Products:   productrepo.NewPostgres(pool, logger),
		Offerings:  offeringrepo.NewPostgres(pool, logger),
		Settings:   settingsrepo.NewPostgres(pool),
		Broadcasts: broadcastrepo.NewPostgres(pool),
	}); err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	logger.Info("seed applied")
}
