package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"careerfolio/internal/audit"
	"careerfolio/internal/config"
	"careerfolio/internal/kv"
	"careerfolio/internal/logging"
	"careerfolio/internal/queue"
)

// Worker consumes artifact events and appends them to the audit table.
func main() {
	cfg := config.Load()
	log := logging.Init(cfg.Env, cfg.LogLevel).With("component", "worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	pg, err := kv.OpenPostgres(openCtx, cfg.DatabaseURL, cfg.AutoMigrate)
	cancel()
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	rdb := kv.NewRedis(cfg.RedisAddr)
	defer rdb.Close()
	if !rdb.Healthy(ctx) {
		log.Warn("redis not reachable yet, consumer will keep retrying", "addr", cfg.RedisAddr)
	}

	q := queue.NewRedisQueue(rdb.Client, cfg.QueueKey)
	messages, err := q.Consume(ctx)
	if err != nil {
		log.Error("queue consume init failed", "err", err)
		os.Exit(1)
	}

	log.Info("worker started, waiting for messages", "queue", cfg.QueueKey)
	n := audit.Run(ctx, messages, audit.NewRepository(pg.DB()), log)
	log.Info("worker stopped", "recorded", n)
}
