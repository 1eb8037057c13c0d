package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kislikjeka/solsplit/internal/infra/gateway/bridge"
	"github.com/kislikjeka/solsplit/internal/infra/postgres"
	infraRedis "github.com/kislikjeka/solsplit/internal/infra/redis"
	"github.com/kislikjeka/solsplit/internal/notify"
	"github.com/kislikjeka/solsplit/internal/progress"
	"github.com/kislikjeka/solsplit/internal/reconcile"
	"github.com/kislikjeka/solsplit/internal/store"
	"github.com/kislikjeka/solsplit/internal/transport/httpapi"
	"github.com/kislikjeka/solsplit/internal/transport/httpapi/handler"
	"github.com/kislikjeka/solsplit/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/solsplit/pkg/config"
	"github.com/kislikjeka/solsplit/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// redisPinger adapts the Redis client to the health handler's ping interface
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewDefault(cfg.Env)
	log.Info("Starting SolSplit API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"store", cfg.StoreBackend,
	)

	// Initialize the wallet state store
	var (
		walletStore store.Store
		storePinger handler.StorePinger
	)
	switch cfg.StoreBackend {
	case config.StorePostgres:
		db, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
		if err != nil {
			log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		walletStore = postgres.NewStore(db.Pool, log)
		storePinger = db
		log.Info("Database connection established")

	case config.StoreRedis:
		redisClient, err := infraRedis.NewClient(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			log.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		walletStore = infraRedis.NewStore(redisClient, log)
		storePinger = redisPinger{redisClient}
		log.Info("Redis connection established")

	default:
		walletStore = store.NewMemoryStore(log)
		log.Warn("Using in-memory store, state is lost on restart")
	}

	// Load the achievement catalog, with optional extensions
	catalog := progress.DefaultCatalog()
	if cfg.AchievementsPath != "" {
		catalog, err = progress.LoadCatalog(cfg.AchievementsPath)
		if err != nil {
			log.Error("Failed to load achievement catalog", "path", cfg.AchievementsPath, "error", err)
			os.Exit(1)
		}
		log.Info("Achievement catalog loaded", "path", cfg.AchievementsPath, "entries", len(catalog))
	}

	// Initialize services
	bridgeClient := bridge.NewClient(cfg.BridgeURL, cfg.BridgeAPIKey, log)
	jwtSvc := middleware.NewJWTService(cfg.JWTSecret)

	progressSvc := progress.NewService(walletStore, catalog, log)
	unlockFeed := notify.NewRingSink(50)
	notifier := notify.NewNotifier(log, unlockFeed)
	billSvc := reconcile.NewService(walletStore, bridgeClient, progressSvc, notifier, log)
	log.Info("Bill reconciler initialized")

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(jwtSvc)
	billHandler := handler.NewBillHandler(billSvc)
	progressHandler := handler.NewProgressHandler(progressSvc)
	notificationHandler := handler.NewNotificationHandler(unlockFeed)
	healthHandler := handler.NewHealthHandler(storePinger)

	// Determine allowed origins for CORS
	allowedOrigins := []string{"http://localhost:5173", "http://localhost:5174"} // Vite ports
	if cfg.IsProduction() {
		if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
			allowedOrigins = []string{origins}
		}
	}

	// Create HTTP router
	r := httpapi.NewRouter(httpapi.Config{
		Logger:              log,
		AllowedOrigins:      allowedOrigins,
		AuthHandler:         authHandler,
		BillHandler:         billHandler,
		ProgressHandler:     progressHandler,
		NotificationHandler: notificationHandler,
		HealthHandler:       healthHandler,
		JWTMiddleware:       middleware.JWTMiddleware(jwtSvc),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
