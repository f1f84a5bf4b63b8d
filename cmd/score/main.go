package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/leak-priority-service/internal/config"
	"github.com/leak-priority-service/internal/observability"
	"github.com/leak-priority-service/internal/pkg/logger"
	"github.com/leak-priority-service/internal/repository/cache"
	"github.com/leak-priority-service/internal/repository/postgres"
	"github.com/leak-priority-service/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting priority scoring run",
		zap.Float64("radius_meters", cfg.Scoring.ProximityRadiusMeters),
		zap.Duration("recent_repaired_window", cfg.Scoring.RecentRepairedWindow))

	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	scoreUC := usecase.NewScoreUseCase(
		postgres.NewReportRepository(db),
		cache.NewRunLocker(redisClient, cfg.Worker.RunLockTTL),
		cache.NewRunSummaryCache(redisClient),
		cfg.Scoring,
		observability.NewMetrics(),
		clockwork.NewRealClock(),
		log,
	)

	summary, _, err := scoreUC.Run(context.Background())
	if err != nil {
		log.Error("Score run aborted", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Score run complete",
		zap.String("run_id", summary.RunID),
		zap.Int("scored", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))
}
