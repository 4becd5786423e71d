package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pitwall/tourney-system/internal/api"
	"github.com/pitwall/tourney-system/internal/core/service"
	"github.com/pitwall/tourney-system/internal/infrastructure/config"
	mongodb "github.com/pitwall/tourney-system/internal/infrastructure/db/mongo"
	redisdb "github.com/pitwall/tourney-system/internal/infrastructure/db/redis"
	"github.com/pitwall/tourney-system/internal/infrastructure/feed"
	"github.com/pitwall/tourney-system/internal/infrastructure/queue"
	"github.com/pitwall/tourney-system/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(cfg.LogLevel, cfg.Env == "development", os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- External stores ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	mongoClient, mongoDB, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	// --- Audit pipeline ---
	auditRepo := mongodb.NewAuditRepository(mongoDB)
	dispatcher := queue.NewDispatcher(0, auditRepo, log)
	dispatcher.Start(ctx)

	// --- Core services ---
	store := redisdb.NewSnapshotStore(rdb)

	accounts := service.NewAccountService(store, dispatcher, log)
	accounts.Load(ctx)

	session := service.NewSessionService(accounts, store, dispatcher, cfg.JWTSecret, 24*time.Hour, log)
	session.Restore(ctx)

	content := service.NewContentService(store, log)
	content.Load(ctx)

	source := feed.NewClient(cfg.Feed.BaseURL, cfg.Feed.Timeout)
	sync := service.NewSyncService(source, content, dispatcher, cfg.Feed.Timeout, log)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Session:   session,
		Registry:  accounts,
		Content:   content,
		Sync:      sync,
		AuditLog:  auditRepo,
		Audit:     dispatcher,
		Mongo:     mongoDB,
		Redis:     rdb,
		JWTSecret: cfg.JWTSecret,
		Log:       log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting HTTP server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
