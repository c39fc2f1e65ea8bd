package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/mealdesk/canteen-api/docs"
	"github.com/mealdesk/canteen-api/internal/api"
	"github.com/mealdesk/canteen-api/internal/core/service"
	"github.com/mealdesk/canteen-api/internal/infrastructure/config"
	mongorepo "github.com/mealdesk/canteen-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/mealdesk/canteen-api/internal/infrastructure/db/redis"
	"github.com/mealdesk/canteen-api/internal/infrastructure/queue"
	"github.com/mealdesk/canteen-api/pkg/logger"
)

// @title        Canteen API
// @version      1.0
// @description  Role-scoped canteen reporting and meal collection service.
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	cfg := config.Load(slog.Default())

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "canteen-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongorepo.Connect(ctx, mongorepo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisinfra.Connect(ctx, redisinfra.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	if err := ensureIndexes(ctx, db); err != nil {
		log.Warn().Err(err).Msg("index creation failed")
	}

	displayLoc, err := time.LoadLocation(cfg.DisplayTimezone)
	if err != nil {
		log.Warn().Err(err).Str("tz", cfg.DisplayTimezone).Msg("unknown display timezone, falling back to UTC")
		displayLoc = time.UTC
	}

	mealRepo := mongorepo.NewMealRepository(db)
	dedup := redisinfra.NewScanDedup(rdb)
	mealService := service.NewMealService(mealRepo, dedup, log)

	dispatcher := queue.NewDispatcher(cfg.Workers, mealService, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(db, rdb, api.RouterConfig{
		JWTSecret:  cfg.JWTSecret,
		DisplayLoc: displayLoc,
		Dispatcher: dispatcher,
		Log:        log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("server shut down")
}

// ensureIndexes creates the MongoDB indexes each repository relies on.
// Failures are logged, not fatal: the service can run against an already
// indexed database without the create privilege.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := mongorepo.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongorepo.NewCatalogRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return mongorepo.NewMealRepository(db).EnsureIndexes(ctx)
}
