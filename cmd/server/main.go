package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bugtrackr/bugtrack-api/internal/api"
	"github.com/bugtrackr/bugtrack-api/internal/infrastructure/config"
	mongodb "github.com/bugtrackr/bugtrack-api/internal/infrastructure/db/mongo"
	redisdb "github.com/bugtrackr/bugtrack-api/internal/infrastructure/db/redis"
	"github.com/bugtrackr/bugtrack-api/internal/infrastructure/queue"
	"github.com/bugtrackr/bugtrack-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	tokenTTL, err := time.ParseDuration(cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Str("token_ttl", cfg.TokenTTL).Msg("invalid TOKEN_TTL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongo")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer rdb.Close()

	// Unique indexes are the final authority for the uniqueness invariants;
	// refuse to serve without them.
	for name, ensure := range map[string]func(context.Context) error{
		"users":       mongodb.NewUserRepository(db).EnsureIndexes,
		"projects":    mongodb.NewProjectRepository(db).EnsureIndexes,
		"assignments": mongodb.NewAssignmentRepository(db).EnsureIndexes,
		"bugs":        mongodb.NewBugRepository(db).EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("ensure indexes")
		}
	}

	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, mongodb.NewAuditRepository(db), log)
	dispatcher.Start(ctx)

	e := api.NewRouter(db, rdb, cfg.JWTSecret, tokenTTL, dispatcher, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("bugtrack api started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
