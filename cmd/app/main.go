package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"gymhub/internal/config"
	"gymhub/internal/db"
	"gymhub/internal/email"
	"gymhub/internal/events"
	"gymhub/internal/goer"
	"gymhub/internal/gym"
	"gymhub/internal/logger"
	"gymhub/internal/membership"
	"gymhub/internal/obs"
	"gymhub/internal/server"
	"gymhub/internal/stats"
	"gymhub/internal/sweeper"
	"gymhub/internal/user"
)

// @title GymHub API
// @version 1.0
// @description Gym membership marketplace: gyms, enrollment, dashboards and owner statistics.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	logger.Info("Starting GymHub application")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracer, err := obs.InitTracer(ctx, "gymhub", cfg.OTLPEndpoint, cfg.Env)
	if err != nil {
		logger.Fatalf("Failed to init tracing: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, "migrations"); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("Redis unreachable, emails and sweep locking will fail until it is back", "error", err)
	}

	emailService := email.New(rdb, email.Options{
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
		SMTPHost: cfg.SMTPHost,
		SMTPPort: cfg.SMTPPort,
		SMTPUser: cfg.SMTPUser,
		SMTPPass: cfg.SMTPPass,
	})
	go emailService.Start(ctx)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitURL != "" {
		p, err := events.NewAMQPPublisher(cfg.RabbitURL, cfg.EventsExchange)
		if err != nil {
			logger.Error("Event publishing disabled", "error", err)
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	userRepo := user.NewRepository(database)
	gymRepo := gym.NewRepository(database)
	goerRepo := goer.NewRepository(database)
	membershipRepo := membership.NewRepository(database)

	membershipService := membership.NewService(membershipRepo, goerRepo, gymRepo, userRepo,
		membership.WithNotifier(emailService),
		membership.WithPublisher(publisher),
	)

	sw, err := sweeper.New(membershipService, cfg.SweepAt,
		sweeper.WithLocker(sweeper.NewRedisLocker(rdb)),
		sweeper.WithPublisher(publisher),
		sweeper.WithLockTTL(cfg.SweepLockTTL),
	)
	if err != nil {
		logger.Fatalf("Failed to configure sweeper: %v", err)
	}
	go sw.Run(ctx)
	logger.Info("Membership sweeper scheduled", "at", cfg.SweepAt)

	srv, err := server.New(cfg, server.Services{
		Users:       user.NewService(userRepo, cfg.JWTSecret),
		Gyms:        gym.NewService(gymRepo),
		Goers:       goer.NewService(goerRepo),
		Memberships: membershipService,
		Stats:       stats.NewService(userRepo, gymRepo, membershipRepo, goerRepo),
		Email:       emailService,
	})
	if err != nil {
		logger.Fatalf("Failed to build server: %v", err)
	}

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Errorf("Error flushing traces: %v", err)
	}

	logger.Info("Server stopped")
}
