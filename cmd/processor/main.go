package main

import (
	"budget-monitor/internal/adapters/cache/redis"
	"budget-monitor/internal/adapters/eventbroker/nats"
	"budget-monitor/internal/adapters/extractor/gemini"
	"budget-monitor/internal/adapters/pdf/pdfcpu"
	"budget-monitor/internal/adapters/repository/postgres"
	"budget-monitor/internal/adapters/storage/minio"
	"budget-monitor/internal/config"
	"budget-monitor/internal/core/port"
	"budget-monitor/internal/core/service/processing"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	// Initialize database
	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()
	logger.Info("db connection established")

	minioAdapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
	if err != nil {
		logger.Error("failed to init minio", "error", err)
		os.Exit(1)
	}
	logger.Info("minio adapter initialized")

	redisClient, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		logger.Error("failed to init redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	extractor, err := gemini.NewExtractor(ctx, cfg.Gemini, logger)
	if err != nil {
		logger.Error("failed to init gemini extractor", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := extractor.Close(); err != nil {
			logger.Error("failed to close gemini client", "error", err)
		}
	}()
	logger.Info("gemini extractor initialized", "model", cfg.Gemini.Model)

	unitOfWork := postgres.NewUnitOfWork(db)

	processingService := processing.NewProcessingService(
		unitOfWork,
		minioAdapter,
		pdfcpu.NewSplitter(),
		extractor,
		redis.NewProgressCache(redisClient, cfg.Redis.ProgressTTL),
		redis.NewLocker(redisClient),
		processing.Config{
			PagesPerBatch: cfg.Processing.PagesPerBatch,
			Concurrency:   cfg.Processing.Concurrency,
			BatchTimeout:  cfg.Gemini.BatchTimeout,
			LockTTL:       cfg.Redis.LockTTL,
		},
		logger,
	)

	// Initialize NATS consumer
	var natsConsumer port.EventConsumer
	natsConsumer, err = nats.NewNATSConsumer(cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to create NATS consumer", "error", err)
		os.Exit(1)
	}
	logger.Info("NATS consumer initialized")

	if err := natsConsumer.Subscribe(ctx, processingService); err != nil {
		logger.Error("failed to subscribe to NATS", "error", err)
		_ = natsConsumer.Close()
		os.Exit(1)
	}
	logger.Info("NATS subscription active", "subject", cfg.NATS.Subject, "concurrency", cfg.Processing.Concurrency)

	// Wait for termination signal
	<-ctx.Done()
	logger.Info("gracefully shutting down processor")

	// documents left in processing are redelivered once the ack wait expires
	if err := natsConsumer.Close(); err != nil {
		logger.Error("failed to close NATS consumer during shutdown", "error", err)
	}

	logger.Info("processor shutdown complete")
}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}
