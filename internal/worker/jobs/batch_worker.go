package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/leak-priority-service/internal/domain"
	apperrors "github.com/leak-priority-service/internal/pkg/errors"
	"github.com/leak-priority-service/internal/worker"
	"go.uber.org/zap"
)

// BatchRunner is one self-contained batch pass: a sync or score usecase.
type BatchRunner interface {
	Run(ctx context.Context) (*domain.RunSummary, []domain.RecordOutcome, error)
}

// BatchWorker triggers a batch runner on a fixed interval. The first pass
// runs immediately on start; a held run lock is logged and waited out, not
// treated as a failure.
type BatchWorker struct {
	*worker.BaseWorker
	runner   BatchRunner
	interval time.Duration
}

func NewBatchWorker(name string, runner BatchRunner, interval time.Duration, logger *zap.Logger) *BatchWorker {
	return &BatchWorker{
		BaseWorker: worker.NewBaseWorker(name, logger),
		runner:     runner,
		interval:   interval,
	}
}

func (w *BatchWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting batch worker",
		zap.String("name", w.Name()),
		zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.runOnce(ctx)

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped", zap.String("name", w.Name()))
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled", zap.String("name", w.Name()))
			return ctx.Err()

		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *BatchWorker) runOnce(ctx context.Context) {
	logger := w.Logger()

	summary, _, err := w.runner.Run(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrRunLockHeld) {
			logger.Info("Pass skipped, another run holds the lock",
				zap.String("name", w.Name()))
			return
		}
		logger.Error("Batch pass failed",
			zap.String("name", w.Name()), zap.Error(err))
		return
	}

	logger.Info("Batch pass complete",
		zap.String("name", w.Name()),
		zap.String("run_id", summary.RunID),
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))
}
