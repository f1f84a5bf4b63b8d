package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/leak-priority-service/internal/config"
	"github.com/leak-priority-service/internal/infrastructure/kobo"
	"github.com/leak-priority-service/internal/observability"
	"github.com/leak-priority-service/internal/pkg/logger"
	"github.com/leak-priority-service/internal/repository/cache"
	"github.com/leak-priority-service/internal/repository/postgres"
	"github.com/leak-priority-service/internal/usecase"
	"github.com/leak-priority-service/internal/worker"
	"github.com/leak-priority-service/internal/worker/jobs"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Leak Report Worker")
	log.Info("Configuration loaded",
		zap.Duration("sync_interval", cfg.Worker.SyncInterval),
		zap.Duration("score_interval", cfg.Worker.ScoreInterval),
		zap.Float64("proximity_radius", cfg.Scoring.ProximityRadiusMeters))

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories and shared services
	reportRepo := postgres.NewReportRepository(db)
	locker := cache.NewRunLocker(redisClient, cfg.Worker.RunLockTTL)
	summaries := cache.NewRunSummaryCache(redisClient)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	// 6. Initialize use cases
	syncUC := usecase.NewSyncUseCase(
		kobo.NewClient(&cfg.Source, log),
		reportRepo,
		locker,
		summaries,
		usecase.NewNormalizer(&cfg.Source, log),
		metrics,
		clock,
		log,
	)
	scoreUC := usecase.NewScoreUseCase(
		reportRepo,
		locker,
		summaries,
		cfg.Scoring,
		metrics,
		clock,
		log,
	)

	// 7. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(jobs.NewBatchWorker("report-sync", syncUC, cfg.Worker.SyncInterval, log))
	workerManager.Register(jobs.NewBatchWorker("priority-score", scoreUC, cfg.Worker.ScoreInterval, log))

	// 8. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
