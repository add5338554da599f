package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"careerfolio/internal/account"
	"careerfolio/internal/artifacts"
	"careerfolio/internal/audit"
	"careerfolio/internal/config"
	"careerfolio/internal/handler"
	"careerfolio/internal/kv"
	"careerfolio/internal/logging"
	"careerfolio/internal/notify"
	"careerfolio/internal/queue"
	"careerfolio/internal/records"
	"careerfolio/internal/validation"
)

func main() {
	cfg := config.Load()
	log := logging.Init(cfg.Env, cfg.LogLevel)

	// Set Gin mode based on environment
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg, log); err != nil {
		log.Error("http server failed", "err", err)
		os.Exit(1)
	}
}

func runHTTP(cfg config.App, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		backend kv.Store
		pg      *kv.Postgres
		rdb     *kv.Redis
	)
	switch cfg.KVBackend {
	case "postgres":
		openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		p, err := kv.OpenPostgres(openCtx, cfg.DatabaseURL, cfg.AutoMigrate)
		cancel()
		if err != nil {
			return err
		}
		defer p.Close()
		pg, backend = p, p
	case "redis":
		rdb = kv.NewRedis(cfg.RedisAddr)
		defer rdb.Close()
		backend = rdb
	default:
		backend = kv.NewMemory()
	}

	var q queue.Queue
	opts := []handler.Option{
		handler.WithTokens(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.AccessTTL),
		handler.WithHealthCheck("kv", backend.Healthy),
	}
	if cfg.QueueBackend == "redis" {
		if rdb == nil {
			rdb = kv.NewRedis(cfg.RedisAddr)
			defer rdb.Close()
		}
		q = queue.NewRedisQueue(rdb.Client, cfg.QueueKey)
		opts = append(opts, handler.WithHealthCheck("queue", rdb.Healthy))
	} else {
		mem := queue.NewInMemory(256)
		msgs, err := mem.Consume(ctx)
		if err != nil {
			return err
		}
		// No separate worker in this mode; events only reach the log.
		go audit.Run(ctx, msgs, audit.LogRecorder{Logger: log.With("component", "audit")}, log)
		q = mem
	}
	if pg != nil {
		opts = append(opts, handler.WithHistory(audit.NewRepository(pg.DB())))
	}

	store := records.NewStore(backend, cfg.KVPrefix)
	notices := notify.New(cfg.NoticeTTL)
	accounts := account.NewService(store, validation.NewPolicy(cfg.Domain), notices)
	arts := artifacts.NewManager(store, accounts, notices, q)

	st, err := accounts.Restore(ctx)
	if err != nil {
		log.Warn("could not restore session", "err", err)
	} else {
		log.Info("session restored", "state", st.Phase.String())
	}

	h := handler.New(accounts, arts, notices, opts...)
	r := handler.NewRouter(h, handler.RouterConfig{
		RateLimitPerMin: cfg.RateLimitPerMin,
		AllowedOrigins:  cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "port", cfg.HTTPPort, "kv", cfg.KVBackend, "queue", cfg.QueueBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down server")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced shutdown", "err", err)
	}
	notices.Dismiss()
	log.Info("server exited")
	return nil
}
