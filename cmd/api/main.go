package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/userprofile/backend/config"
	"github.com/pageza/userprofile/backend/internal/api"
	"github.com/pageza/userprofile/backend/internal/database"
	"github.com/pageza/userprofile/backend/internal/logger"
	"github.com/pageza/userprofile/backend/internal/middleware"
	"github.com/pageza/userprofile/backend/internal/server"
	"github.com/pageza/userprofile/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Service: "userprofile-api",
		Env:     string(cfg.Env),
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.RunMigrations(db, "migrations"); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer redisClient.Close()
	} else {
		log.Warn("redis not configured, rate limiting disabled")
	}

	s3Cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return err
	}

	profileService := service.NewProfileService(
		database.NewProfileRepository(db),
		service.NewS3AvatarStorage(s3Cfg),
		service.NewAccessPolicy(cfg.AdminGroup),
	)

	srv := server.New(cfg, api.Dependencies{
		DB:             db,
		Redis:          redisClient,
		TokenVerifier:  service.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer),
		ProfileService: profileService,
		RateLimiter:    middleware.NewProfileCreationRateLimiter(redisClient, cfg.RateLimitPerHour),
	}, log)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		log.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
