package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/leak-priority-service/internal/domain"
	"github.com/leak-priority-service/internal/domain/repository"
	"github.com/leak-priority-service/internal/observability"
	apperrors "github.com/leak-priority-service/internal/pkg/errors"
	"go.uber.org/zap"
)

// SyncUseCase pulls raw submissions, normalizes them and upserts each record
// into the spatial store. Per-record failures are isolated: one bad record
// never aborts the batch.
type SyncUseCase struct {
	source     repository.SubmissionSource
	reportRepo repository.ReportRepository
	locker     repository.RunLocker
	summaries  repository.RunSummaryCache
	normalizer *Normalizer
	metrics    *observability.Metrics
	clock      clockwork.Clock
	logger     *zap.Logger
}

func NewSyncUseCase(
	source repository.SubmissionSource,
	reportRepo repository.ReportRepository,
	locker repository.RunLocker,
	summaries repository.RunSummaryCache,
	normalizer *Normalizer,
	metrics *observability.Metrics,
	clock clockwork.Clock,
	logger *zap.Logger,
) *SyncUseCase {
	return &SyncUseCase{
		source:     source,
		reportRepo: reportRepo,
		locker:     locker,
		summaries:  summaries,
		normalizer: normalizer,
		metrics:    metrics,
		clock:      clock,
		logger:     logger,
	}
}

// Run executes one sync pass. It aborts before any write on source or store
// unavailability; otherwise it returns a summary plus per-record outcomes.
func (uc *SyncUseCase) Run(ctx context.Context) (*domain.RunSummary, []domain.RecordOutcome, error) {
	release, err := uc.locker.Acquire(ctx, domain.JobSync)
	if err != nil {
		if errors.Is(err, apperrors.ErrRunLockHeld) {
			uc.logger.Warn("Sync run skipped, run lock held")
		}
		return nil, nil, err
	}
	defer func() {
		if err := release(ctx); err != nil {
			uc.logger.Error("Failed to release run lock", zap.Error(err))
		}
	}()

	uc.metrics.JobRunning.WithLabelValues(string(domain.JobSync)).Set(1)
	defer uc.metrics.JobRunning.WithLabelValues(string(domain.JobSync)).Set(0)

	summary := &domain.RunSummary{
		RunID:     uuid.NewString(),
		Job:       domain.JobSync,
		StartedAt: uc.clock.Now().UTC(),
	}

	submissions, err := uc.source.Fetch(ctx)
	if err != nil {
		uc.logger.Error("Sync run aborted, submission source unavailable", zap.Error(err))
		return nil, nil, err
	}
	uc.metrics.SourceBatchSize.Observe(float64(len(submissions)))

	if err := uc.reportRepo.EnsureSchema(ctx); err != nil {
		uc.logger.Error("Sync run aborted, schema check failed", zap.Error(err))
		return nil, nil, err
	}

	if len(submissions) == 0 {
		uc.logger.Info("No submissions to process",
			zap.String("run_id", summary.RunID))
	}

	outcomes := uc.upsertBatch(ctx, submissions)
	for _, o := range outcomes {
		summary.Observe(o)
		uc.metrics.RecordsProcessed.
			WithLabelValues(string(domain.JobSync), string(o.Kind)).Inc()
	}
	summary.FinishedAt = uc.clock.Now().UTC()
	uc.metrics.RunDuration.WithLabelValues(string(domain.JobSync)).
		Observe(summary.FinishedAt.Sub(summary.StartedAt).Seconds())

	if err := uc.summaries.SetLatest(ctx, *summary); err != nil {
		uc.logger.Warn("Failed to cache sync run summary", zap.Error(err))
	}

	uc.logger.Info("Sync run finished",
		zap.String("run_id", summary.RunID),
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)

	return summary, outcomes, nil
}

// upsertBatch normalizes and writes each record, collecting one outcome per
// raw submission.
func (uc *SyncUseCase) upsertBatch(ctx context.Context, submissions []domain.RawSubmission) []domain.RecordOutcome {
	outcomes := make([]domain.RecordOutcome, 0, len(submissions))

	for _, raw := range submissions {
		report, err := uc.normalizer.Normalize(raw)
		if err != nil {
			uc.logger.Warn("Skipping unmappable record", zap.Error(err))
			outcomes = append(outcomes, domain.RecordOutcome{
				ID:   raw.String(domain.FieldSubmissionID),
				Kind: domain.OutcomeSkipped,
				Err:  err,
			})
			continue
		}

		if err := uc.reportRepo.Upsert(ctx, report); err != nil {
			uc.logger.Error("Record upsert rejected, continuing batch",
				zap.String("id", report.ID), zap.Error(err))
			outcomes = append(outcomes, domain.RecordOutcome{
				ID:   report.ID,
				Kind: domain.OutcomeFailed,
				Err:  err,
			})
			continue
		}

		uc.logger.Debug("Record upserted", zap.String("id", report.ID))
		outcomes = append(outcomes, domain.RecordOutcome{
			ID:   report.ID,
			Kind: domain.OutcomeProcessed,
		})
	}

	return outcomes
}
