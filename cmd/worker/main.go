package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/velora/auth-service/application/usecase"
	"github.com/velora/auth-service/infrastructure/adapter/postgres"
	"github.com/velora/auth-service/infrastructure/adapter/rabbitmq"
	"github.com/velora/auth-service/infrastructure/adapter/redisstore"
	"github.com/velora/auth-service/infrastructure/config"
	"github.com/velora/auth-service/infrastructure/service/logger"
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
		ServiceName: "auth-worker",
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

	purger := usecase.NewPurgeUseCase(
		redisstore.NewCancelFlags(redisClient),
		postgres.NewAccountRepository(db),
		redisstore.NewStagingStore(redisClient),
		appLogger,
	)

	consumer, err := rabbitmq.NewConsumer(cfg.AMQPURL, purger, appLogger)
	if err != nil {
		log.Fatalf("Failed to start consumer: %v", err)
	}
	defer consumer.Close()

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Consumer stopped: %v", err)
	}
	appLogger.Info(context.Background(), "worker stopped", nil)
}
