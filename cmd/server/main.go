package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blog-platform-api/internal/api"
	"github.com/blog-platform-api/internal/auth"
	"github.com/blog-platform-api/internal/config"
	"github.com/blog-platform-api/internal/database"
	"github.com/blog-platform-api/internal/mailer"
	"github.com/blog-platform-api/internal/realtime"
	"github.com/blog-platform-api/internal/repository"
	"github.com/blog-platform-api/internal/service"
	"github.com/blog-platform-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting blog platform API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = logger.NewWithConfig(cfg.Log.Level, cfg.Log.Format)

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Redis holds OTPs and carries realtime notifications
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid REDIS_URL")
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to redis")
	}
	pingCancel()

	bus := realtime.NewRedisBus(rdb, log)

	// Initialize repositories
	repos := repository.New(db)

	// Initialize services
	services := service.NewServices(repos, service.Deps{
		Tokens: auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		OTP:    auth.NewRedisOTPStore(rdb),
		Social: auth.NewGoogleVerifier(cfg.Auth.GoogleClientID),
		Mailer: mailer.New(cfg.Mail, log),
		Bus:    bus,
	}, cfg, log)

	// Start scheduled publishing
	go services.Scheduler.StartProcessor(context.Background())
	log.Info().Dur("interval", cfg.Scheduler.Interval).Msg("Scheduled publisher started")

	// Initialize router
	router := api.NewRouter(services, bus, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	services.Scheduler.StopProcessor()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
