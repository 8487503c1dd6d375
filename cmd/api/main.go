package main

import (
	"budget-monitor/internal/adapters/cache/redis"
	"budget-monitor/internal/adapters/eventbroker/nats"
	"budget-monitor/internal/adapters/handlers/http/chi"
	"budget-monitor/internal/adapters/handlers/http/chi/v1/document"
	"budget-monitor/internal/adapters/handlers/http/chi/v1/municipality"
	"budget-monitor/internal/adapters/repository/postgres"
	"budget-monitor/internal/adapters/storage/minio"
	"budget-monitor/internal/config"
	"budget-monitor/internal/core/port"
	"budget-monitor/internal/core/service/cleanup"
	documentservice "budget-monitor/internal/core/service/document"
	municipalityservice "budget-monitor/internal/core/service/municipality"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
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

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {
			logger.Error("failed to close database", "error", err)
			os.Exit(1)
		}
	}(db)
	logger.Info("db connection established")

	//storage
	minioAdapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
	if err != nil {
		logger.Error("failed to init minio", "error", err)
		os.Exit(1)
	}

	//progress cache
	redisClient, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		logger.Error("failed to init redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	progressCache := redis.NewProgressCache(redisClient, cfg.Redis.ProgressTTL)

	//processing queue
	publisher, err := nats.NewNATSPublisher(ctx, cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to init NATS publisher", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to close NATS publisher", "error", err)
		}
	}()

	unitOfWork := postgres.NewUnitOfWork(db)

	municipalityService := municipalityservice.NewMunicipalityService(unitOfWork, logger)
	documentService := documentservice.NewDocumentService(unitOfWork, minioAdapter, publisher, progressCache, cfg.Upload, logger)
	cleanupService := cleanup.NewCleanupService(unitOfWork, progressCache, cfg.Upload.StaleAfter, logger)

	//http
	municipalityHandler := municipality.NewMunicipalityHandlerV1(municipalityService, logger)
	documentHandler := document.NewDocumentHandlerV1(documentService, logger)

	router := chi.NewRouter(logger, municipalityHandler, documentHandler, cfg.Server.CorsOrigins, cfg.Upload.MaxSize)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port, "env", cfg.Env.Env)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// init stale processing sweeper
	wg.Add(1)
	go func() {
		defer wg.Done()
		initCleanupTask(ctx, cleanupService, cfg.Upload.CleanupEvery, logger)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

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
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}

func initCleanupTask(ctx context.Context, service port.CleanupService, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("stale processing sweeper initialized", "interval", every)

	for {
		select {
		case <-ticker.C:
			failed, err := service.FailStaleProcessing(ctx, time.Now().UTC())
			if err != nil {
				logger.Error("failed to sweep stale processing", "error", err)
			} else if failed > 0 {
				logger.Warn("stale documents marked failed", "count", failed)
			}
		case <-ctx.Done():
			logger.Info("stale processing sweeper stopped")
			return
		}
	}

}
