package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	"github.com/velora/auth-service/application/port/outbound"
	"github.com/velora/auth-service/application/usecase"
	"github.com/velora/auth-service/infrastructure/adapter/mail"
	"github.com/velora/auth-service/infrastructure/adapter/postgres"
	"github.com/velora/auth-service/infrastructure/adapter/rabbitmq"
	"github.com/velora/auth-service/infrastructure/adapter/redisstore"
	"github.com/velora/auth-service/infrastructure/config"
	"github.com/velora/auth-service/infrastructure/http/handler"
	"github.com/velora/auth-service/infrastructure/http/middleware"
	"github.com/velora/auth-service/infrastructure/service/identifier"
	"github.com/velora/auth-service/infrastructure/service/jwt"
	"github.com/velora/auth-service/infrastructure/service/logger"
	"github.com/velora/auth-service/infrastructure/service/password"
	"github.com/velora/auth-service/infrastructure/service/ratelimit"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "auth-service",
	})
	appLogger.Info(ctx, "application starting", map[string]interface{}{
		"env": cfg.Environment,
	})

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	redisClient, err := redisstore.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	publisher, err := rabbitmq.NewPublisher(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("Failed to connect to broker: %v", err)
	}
	defer publisher.Close()

	tokenService, err := jwt.NewTokenService(jwt.Config{
		AccessSecret:  cfg.AccessTokenSecret,
		RefreshSecret: cfg.RefreshTokenSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}

	hasher, err := password.NewArgon2Service(cfg.PasswordSecret)
	if err != nil {
		log.Fatalf("Failed to initialize password service: %v", err)
	}

	var notifier outbound.ConfirmationNotifier = publisher
	if cfg.NotifierMode == "smtp" {
		notifier = mail.NewSMTPNotifier(
			cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword,
			cfg.SMTPFrom, cfg.ConfirmBaseURL,
		)
	}

	flags := redisstore.NewCancelFlags(redisClient)
	authUseCase := usecase.NewAuthUseCase(
		postgres.NewAccountRepository(db),
		redisstore.NewStagingStore(redisClient),
		redisstore.NewRevocationLedger(redisClient),
		rabbitmq.NewScheduler(publisher, flags, cfg.StagingTTL),
		tokenService,
		hasher,
		identifier.NewUUIDGenerator(),
		notifier,
		appLogger,
		cfg.StagingTTL,
		cfg.PurgeDelay,
	)

	limiter := ratelimit.New(redisClient, ratelimit.Config{
		Enabled:  cfg.RateLimitEnabled,
		Attempts: cfg.RateLimitAttempts,
		Window:   cfg.RateLimitWindow,
		BlockFor: cfg.RateLimitBlock,
	}, appLogger)

	router := mux.NewRouter()
	router.Use(middleware.CorrelationID)
	guard := middleware.NewAuthMiddleware(authUseCase)
	handler.NewAuthHandler(authUseCase, limiter, appLogger).Register(router, guard)

	server := &http.Server{
		Addr:              cfg.ServerHost + ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		appLogger.Info(ctx, "http server listening", map[string]interface{}{
			"addr": server.Addr,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info(context.Background(), "shutting down", nil)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(shutdownCtx, "shutdown failed", err, nil)
	}
}
