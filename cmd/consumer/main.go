package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go-traindesk/internal/auditlog"
	"go-traindesk/internal/config"
	"go-traindesk/internal/messaging/kafka/consumer"
	"go-traindesk/internal/shared/connection"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg := config.New()
	if cfg.Mongo.URI == "" {
		logger.Fatal("MONGO_URI is required")
	}
	if !cfg.Kafka.Enabled() {
		logger.Fatal("KAFKA_BROKERS is required")
	}

	db, err := connection.ConnectMongoWithRetry(cfg.Mongo.URI, cfg.Mongo.Database, 5)
	if err != nil {
		logger.Fatal("mongo connection failed", zap.Error(err))
	}

	auditConsumer := consumer.NewAuditConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.Topic,
		auditlog.NewRepository(db),
		logger,
	)
	defer auditConsumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("audit consumer running",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
	)

	if err := auditConsumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("consumer stopped", zap.Error(err))
	}
	logger.Info("audit consumer exited")
}
