package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Shail-ja/Project-syncify/internal/config"
	"github.com/Shail-ja/Project-syncify/internal/db"
	apihttp "github.com/Shail-ja/Project-syncify/internal/http"
	"github.com/Shail-ja/Project-syncify/internal/identity"
	"github.com/Shail-ja/Project-syncify/internal/repository"
	"github.com/Shail-ja/Project-syncify/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	profileRepo := repository.NewPgProfileRepository(pool)
	activityRepo := repository.NewPgActivityRepository(pool)

	var provider identity.Provider
	if cfg.ProviderURL != "" {
		provider = identity.NewHTTPProvider(cfg.ProviderURL, cfg.ProviderServiceKey, logger)
	} else {
		logger.Warn("identity provider not configured, using local dev provider")
		provider = identity.NewLocalProvider(cfg.AuthDevSecret, time.Hour, false)
	}

	limiter := service.NewLoginRateLimiter(10*time.Minute, 10)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else if l := service.NewRedisLoginRateLimiter(redisClient, 10*time.Minute, 10); l != nil {
			limiter = l
		}
		cancel()
	}

	sessionSvc := service.NewSessionService(logger, provider, profileRepo, activityRepo, cfg.AdminEmails, limiter)
	authHandler := apihttp.NewAuthHandler(logger, sessionSvc)
	router := apihttp.NewRouter(logger, authHandler, cfg.FrontendURL)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
