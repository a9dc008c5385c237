package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"regen-insight/server/internal/config"
	internalhttp "regen-insight/server/internal/http"
	"regen-insight/server/internal/migrate"
	"regen-insight/server/internal/repository/memory"
	"regen-insight/server/internal/repository/postgres"
	"regen-insight/server/internal/service"
	"regen-insight/server/internal/session"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, cleanup, err := buildRepos(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("storage init failed", zap.Error(err))
	}
	defer cleanup()

	sessions, err := buildSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("session store init failed", zap.Error(err))
	}

	svc := service.New(cfg, repos, sessions, logger)
	if err := svc.Bootstrap(ctx); err != nil {
		logger.Fatal("chief admin bootstrap failed", zap.Error(err))
	}

	server := internalhttp.NewServer(cfg, svc, logger)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}

// buildRepos selects the storage backend: postgres when DATABASE_URL is set,
// in-memory otherwise.
func buildRepos(ctx context.Context, cfg config.Config, logger *zap.Logger) (service.Repos, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory storage")
		return service.Repos{
			Users:         memory.NewUserRepo(),
			Admins:        memory.NewAdminRepo(),
			Messages:      memory.NewMessageRepo(),
			Notifications: memory.NewNotificationRepo(),
			Tickets:       memory.NewTicketRepo(),
			Uploads:       memory.NewUploadRepo(),
		}, func() {}, nil
	}

	if err := migrate.Up(ctx, cfg.DatabaseURL); err != nil {
		return service.Repos{}, nil, err
	}
	db, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return service.Repos{}, nil, err
	}
	return service.Repos{
		Users:         postgres.NewUserRepo(db),
		Admins:        postgres.NewAdminRepo(db),
		Messages:      postgres.NewMessageRepo(db),
		Notifications: postgres.NewNotificationRepo(db),
		Tickets:       postgres.NewTicketRepo(db),
		Uploads:       postgres.NewUploadRepo(db),
	}, db.Close, nil
}

// buildSessionStore selects the session backend: redis when REDIS_ADDR is
// set, in-process otherwise.
func buildSessionStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (session.Store, error) {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, sessions are in-process only")
		return session.NewMemoryStore(cfg.SessionTTL), nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}
	return session.NewRedisStore(rdb, cfg.SessionTTL), nil
}
