package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AssetAkire/Capstone-FacilityFix/internal/api"
	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/service"
	"github.com/AssetAkire/Capstone-FacilityFix/internal/infrastructure/config"
	mongodb "github.com/AssetAkire/Capstone-FacilityFix/internal/infrastructure/db/mongo"
	redisdb "github.com/AssetAkire/Capstone-FacilityFix/internal/infrastructure/db/redis"
	"github.com/AssetAkire/Capstone-FacilityFix/internal/infrastructure/identity"
	"github.com/AssetAkire/Capstone-FacilityFix/internal/infrastructure/queue"
	"github.com/AssetAkire/Capstone-FacilityFix/pkg/logger"
)

// @title                       FacilityFix User Administration API
// @version                     1.0
// @description                 Administrative gateway for building/tenant user accounts.
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "facilityfix",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Collaborators ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Indexes ---
	if err := identity.NewProvider(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create identity indexes")
	}
	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}

	// --- Audit trail ---
	auditService := service.NewAuditService(mongodb.NewAuditRepository(db), log)
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditService, log)
	dispatcher.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(db, rdb, cfg.JWTSecret, dispatcher, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("user administration gateway listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
