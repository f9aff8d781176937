package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/userhub/identity-service/internal/api"
	"github.com/userhub/identity-service/internal/core/token"
	"github.com/userhub/identity-service/internal/infrastructure/config"
	mongodb "github.com/userhub/identity-service/internal/infrastructure/db/mongo"
	redisdb "github.com/userhub/identity-service/internal/infrastructure/db/redis"
	"github.com/userhub/identity-service/internal/infrastructure/seed"
	"github.com/userhub/identity-service/internal/pkg/password"
	"github.com/userhub/identity-service/pkg/logger"
)

// devJWTSecret is the development-only fallback signing key. Production
// refuses to start without an explicit JWT_SECRET.
const devJWTSecret = "dev-insecure-signing-key-do-not-deploy"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	secret := cfg.JWTSecret
	if secret == "" {
		if cfg.IsProduction() {
			log.Fatal().Msg("JWT_SECRET is required in production")
		}
		secret = devJWTSecret
		log.Warn().Msg("JWT_SECRET not set; using the INSECURE development fallback key")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
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

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	hasher := password.NewHasher(cfg.BcryptCost)
	codec := token.NewCodec(secret, cfg.TokenTTL, log)

	roleRepo := mongodb.NewRoleRepository(db)
	userRepo := mongodb.NewUserRepository(db, roleRepo)
	admin := seed.AdminAccount{Email: cfg.SeedAdminEmail, Password: cfg.SeedAdminPassword}
	if err := seed.Run(ctx, roleRepo, userRepo, hasher, admin, log); err != nil {
		log.Error().Err(err).Msg("seeding failed; continuing without bootstrap data")
	}

	e := api.NewRouter(db, rdb, codec, hasher, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting identity service")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
