package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Koalla18/TakeSmart/internal/auth"
	"github.com/Koalla18/TakeSmart/internal/catalog"
	"github.com/Koalla18/TakeSmart/internal/checkout"
	"github.com/Koalla18/TakeSmart/internal/config"
	"github.com/Koalla18/TakeSmart/internal/db"
	"github.com/Koalla18/TakeSmart/internal/events"
	httpapi "github.com/Koalla18/TakeSmart/internal/http"
	"github.com/Koalla18/TakeSmart/internal/kv"
	"github.com/Koalla18/TakeSmart/internal/notify"
	"github.com/Koalla18/TakeSmart/internal/order"
)

func main() {
	cfg := config.Load()

	logger := log.New(os.Stdout, "[takesmart] ", log.LstdFlags|log.Lshortfile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
		logger.Fatalf("migrations: %v", err)
	}
	pool := db.MustOpenPool(ctx, cfg.DatabaseDSN)
	defer pool.Close()

	// Redis backs both cart snapshots and the catalog cache. Without it
	// the service still runs: carts fall back to process memory and the
	// catalog reads go straight to Postgres.
	var (
		kvStore      kv.Store
		catalogCache catalog.Cache
	)
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Printf("redis unavailable, carts are in-memory only: %v", err)
		kvStore = kv.NewMemoryStore()
	} else {
		kvStore = kv.NewRedisStore(redisClient, cfg.CartTTL)
		catalogCache = catalog.NewRedisCache(redisClient, cfg.CacheTTL)
	}

	catalogRepo := catalog.NewPostgresRepository(pool)
	catalogSvc := catalog.NewService(catalogRepo, catalogCache, logger)

	// RabbitMQ
	var publisher order.EventPublisher
	if cfg.RabbitURL != "" {
		rabbitConn := events.MustDialRabbit(cfg.RabbitURL)
		defer rabbitConn.Close()

		p, err := events.NewPublisher(rabbitConn)
		if err != nil {
			logger.Fatalf("events publisher: %v", err)
		}
		defer p.Close()
		publisher = p
	} else {
		logger.Println("RABBITMQ_URL not set, order events disabled")
	}

	notifier := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID, logger)

	orderRepo := order.NewPostgresRepository(pool)
	orderSvc := order.NewService(orderRepo, publisher, notifier, logger)

	checkoutSvc := checkout.NewService(orderSvc, logger)

	authMgr := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL, cfg.AdminUsername, cfg.AdminPasswordHash)
	if cfg.AdminPasswordHash == "" {
		logger.Println("ADMIN_PASSWORD_HASH not set, admin login disabled")
	}

	// HTTP
	router := httpapi.NewRouter(httpapi.RouterDeps{
		Cart:             httpapi.NewCartHandler(kvStore, catalogSvc, logger),
		Checkout:         httpapi.NewCheckoutHandler(kvStore, checkoutSvc, logger),
		Catalog:          httpapi.NewCatalogHandler(catalogSvc),
		Orders:           httpapi.NewOrderHandler(orderSvc),
		Auth:             httpapi.NewAuthHandler(authMgr),
		AuthMgr:          authMgr,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Printf("takesmart listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	cancel()
}
