package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/leak-priority-service/internal/config"
	httpDelivery "github.com/leak-priority-service/internal/delivery/http"
	"github.com/leak-priority-service/internal/delivery/http/handler"
	"github.com/leak-priority-service/internal/infrastructure/kobo"
	"github.com/leak-priority-service/internal/observability"
	"github.com/leak-priority-service/internal/pkg/logger"
	"github.com/leak-priority-service/internal/repository/cache"
	"github.com/leak-priority-service/internal/repository/postgres"
	"github.com/leak-priority-service/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Leak Priority Service ops server",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

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

	// 5. Initialize repositories, use cases and handlers
	reportRepo := postgres.NewReportRepository(db)
	locker := cache.NewRunLocker(redisClient, cfg.Worker.RunLockTTL)
	summaries := cache.NewRunSummaryCache(redisClient)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

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

	healthHandler := handler.NewHealthHandler(db, redisClient, log)
	jobHandler := handler.NewJobHandler(syncUC, scoreUC, summaries, log)

	server := httpDelivery.NewServer(cfg, log, healthHandler, jobHandler)

	// 6. Start server with graceful shutdown
	go func() {
		if err := server.Listen(); err != nil {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	if err := server.Shutdown(); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}

	log.Info("Server shutdown complete")
}
