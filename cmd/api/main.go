package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/events"
	"storefront/internal/httpserver"
	"storefront/internal/localstore"
	"storefront/internal/logging"
	broadcastrepo "storefront/internal/repository/broadcast"
	categoryrepo "storefront/internal/repository/category"
	offeringrepo "storefront/internal/repository/offering"
	orderrepo "storefront/internal/repository/order"
	productrepo "storefront/internal/repository/product"
	settingsrepo "storefront/internal/repository/settings"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"
	authsvc "storefront/internal/service/auth"
	cartsvc "storefront/internal/service/cart"
	catalogsvc "storefront/internal/service/catalog"
	checkoutsvc "storefront/internal/service/checkout"
	notificationsvc "storefront/internal/service/notification"
	ordersvc "storefront/internal/service/order"
	wishlistsvc "storefront/internal/service/wishlist"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New("api", logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	var settingsRepo settingsrepo.Repository = settingsrepo.NewPostgres(dbpool)
	kv := localstore.KV(localstore.NewMemoryKV())
	guard := checkoutsvc.Guard(checkoutsvc.NewMemoryGuard())
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("connect to redis", zap.Error(err))
		}
		kv = localstore.NewRedisKV(rdb, cfg.Session.TTL)
		guard = checkoutsvc.NewRedisGuard(rdb, cfg.Checkout.GuardTTL)
		settingsRepo = settingsrepo.NewCached(settingsRepo, rdb, cfg.Settings.CacheTTL, logger.Named("settings"))
		logger.Info("redis session store enabled", zap.String("addr", cfg.Redis.Addr))
	} else {
		logger.Warn("redis not configured, sessions are kept in memory")
	}

	store := localstore.New(kv, logger.Named("localstore"))
	if rdb != nil {
		relayCtx, stopRelay := context.WithCancel(ctx)
		defer stopRelay()
		if err := localstore.NewRelay(rdb, store, logger.Named("relay")).Start(relayCtx); err != nil {
			logger.Fatal("subscribe to session events", zap.Error(err))
		}
	}

	userRepo := userrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	offeringRepo := offeringrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	broadcastRepo := broadcastrepo.NewPostgres(dbpool)

	authService := authsvc.New(userRepo, tokenRepo, authsvc.NewHub(), cfg.Session.TokenTTL, logger.Named("auth"))
	catalogService := catalogsvc.New(productRepo, offeringRepo, categoryrepo.NewPostgres(dbpool))
	cartService := cartsvc.New(store, catalogService)

	checkoutDeps := checkoutsvc.Deps{
		Cart:     store,
		Settings: settingsRepo,
		Profiles: authService,
		Orders:   orderRepo,
		Guard:    guard,
		Logger:   logger.Named("checkout"),
	}
	if cfg.AMQP.URL != "" {
		conn, err := amqp.Dial(cfg.AMQP.URL)
		if err != nil {
			logger.Fatal("connect to amqp", zap.Error(err))
		}
		defer conn.Close()
		pub, err := events.NewPublisher(conn)
		if err != nil {
			logger.Fatal("init publisher", zap.Error(err))
		}
		defer pub.Close()
		checkoutDeps.Publisher = pub
	}
	checkoutService := checkoutsvc.New(checkoutDeps)

	srv, err := httpserver.New(cfg.HTTP.Addr, logger.Named("http"), dbpool, httpserver.Deps{
		AuthSvc:         authService,
		CatalogSvc:      catalogService,
		CartSvc:         cartService,
		CheckoutSvc:     checkoutService,
		OrderSvc:        ordersvc.New(orderRepo),
		WishlistSvc:     wishlistsvc.New(store, catalogService, logger.Named("wishlist")),
		NotificationSvc: notificationsvc.New(store, broadcastRepo),
		Events:          store,
	}, cfg.AllowedOrigins())
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
