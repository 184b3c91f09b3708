// Command sweep expires overdue memberships once and exits. It takes the same
// Redis lock as the in-process sweeper, so it is safe to run from cron next to
// live replicas.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	flag "github.com/spf13/pflag"

	"gymhub/internal/config"
	"gymhub/internal/db"
	"gymhub/internal/events"
	"gymhub/internal/goer"
	"gymhub/internal/gym"
	"gymhub/internal/logger"
	"gymhub/internal/membership"
	"gymhub/internal/sweeper"
	"gymhub/internal/user"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	dsn := flag.String("database-url", cfg.DatabaseURL, "Postgres connection string")
	redisAddr := flag.String("redis-addr", cfg.RedisAddr, "Redis address for the sweep lock")
	noLock := flag.Bool("no-lock", false, "skip the Redis lock (single instance only)")
	publish := flag.Bool("publish", cfg.RabbitURL != "", "publish the membership.expired event")
	timeout := flag.Duration("timeout", 5*time.Minute, "give up after this long")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	database, err := db.Connect(*dsn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	repo := membership.NewRepository(database)
	svc := membership.NewService(repo,
		goer.NewRepository(database),
		gym.NewRepository(database),
		user.NewRepository(database),
	)

	opts := []sweeper.Option{sweeper.WithLockTTL(cfg.SweepLockTTL)}
	if !*noLock {
		rdb := redis.NewClient(&redis.Options{Addr: *redisAddr})
		defer rdb.Close()
		opts = append(opts, sweeper.WithLocker(sweeper.NewRedisLocker(rdb)))
	}
	if *publish {
		p, err := events.NewAMQPPublisher(cfg.RabbitURL, cfg.EventsExchange)
		if err != nil {
			logger.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer p.Close()
		opts = append(opts, sweeper.WithPublisher(p))
	}

	sw, err := sweeper.New(svc, cfg.SweepAt, opts...)
	if err != nil {
		logger.Fatalf("Failed to configure sweeper: %v", err)
	}

	n, err := sw.RunOnce(ctx)
	switch {
	case errors.Is(err, sweeper.ErrLocked):
		fmt.Fprintln(os.Stderr, "another instance is sweeping, nothing to do")
		return
	case err != nil:
		logger.Fatalf("Sweep failed: %v", err)
	}

	fmt.Printf("expired %d memberships\n", n)
}
