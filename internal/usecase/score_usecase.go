package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/leak-priority-service/internal/config"
	"github.com/leak-priority-service/internal/domain"
	"github.com/leak-priority-service/internal/domain/repository"
	"github.com/leak-priority-service/internal/observability"
	apperrors "github.com/leak-priority-service/internal/pkg/errors"
	"go.uber.org/zap"
)

// ScoreUseCase recomputes the priority score of every active report from the
// current store state. The score is never accumulated across runs: each pass
// derives it from scratch, so rerunning against an unchanged store yields
// identical values.
type ScoreUseCase struct {
	reportRepo repository.ReportRepository
	locker     repository.RunLocker
	summaries  repository.RunSummaryCache
	scoring    config.ScoringConfig
	metrics    *observability.Metrics
	clock      clockwork.Clock
	logger     *zap.Logger
}

func NewScoreUseCase(
	reportRepo repository.ReportRepository,
	locker repository.RunLocker,
	summaries repository.RunSummaryCache,
	scoring config.ScoringConfig,
	metrics *observability.Metrics,
	clock clockwork.Clock,
	logger *zap.Logger,
) *ScoreUseCase {
	return &ScoreUseCase{
		reportRepo: reportRepo,
		locker:     locker,
		summaries:  summaries,
		scoring:    scoring,
		metrics:    metrics,
		clock:      clock,
		logger:     logger,
	}
}

// Run executes one scoring pass over all eligible reports, ascending by
// submission time. The run clock is captured once, so every report in the
// pass sees the same recency window.
func (uc *ScoreUseCase) Run(ctx context.Context) (*domain.RunSummary, []domain.RecordOutcome, error) {
	release, err := uc.locker.Acquire(ctx, domain.JobScore)
	if err != nil {
		if errors.Is(err, apperrors.ErrRunLockHeld) {
			uc.logger.Warn("Score run skipped, run lock held")
		}
		return nil, nil, err
	}
	defer func() {
		if err := release(ctx); err != nil {
			uc.logger.Error("Failed to release run lock", zap.Error(err))
		}
	}()

	uc.metrics.JobRunning.WithLabelValues(string(domain.JobScore)).Set(1)
	defer uc.metrics.JobRunning.WithLabelValues(string(domain.JobScore)).Set(0)

	summary := &domain.RunSummary{
		RunID:     uuid.NewString(),
		Job:       domain.JobScore,
		StartedAt: uc.clock.Now().UTC(),
	}
	repairedSince := summary.StartedAt.Add(-uc.scoring.RecentRepairedWindow)

	eligible, err := uc.reportRepo.ListEligible(ctx)
	if err != nil {
		uc.logger.Error("Score run aborted, cannot list eligible reports", zap.Error(err))
		return nil, nil, err
	}

	outcomes := make([]domain.RecordOutcome, 0, len(eligible))
	for _, report := range eligible {
		outcome := uc.scoreReport(ctx, report, repairedSince)
		summary.Observe(outcome)
		uc.metrics.RecordsProcessed.
			WithLabelValues(string(domain.JobScore), string(outcome.Kind)).Inc()
		outcomes = append(outcomes, outcome)
	}

	summary.FinishedAt = uc.clock.Now().UTC()
	uc.metrics.RunDuration.WithLabelValues(string(domain.JobScore)).
		Observe(summary.FinishedAt.Sub(summary.StartedAt).Seconds())

	if err := uc.summaries.SetLatest(ctx, *summary); err != nil {
		uc.logger.Warn("Failed to cache score run summary", zap.Error(err))
	}

	uc.logger.Info("Score run finished",
		zap.String("run_id", summary.RunID),
		zap.Int("scored", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)

	return summary, outcomes, nil
}

// scoreReport computes and writes one report's score. A report without a
// location cannot be spatially evaluated and is written as zero. A failed
// neighbor query skips the report for this run only.
func (uc *ScoreUseCase) scoreReport(
	ctx context.Context,
	report *domain.EligibleReport,
	repairedSince time.Time,
) domain.RecordOutcome {
	score := 0

	if report.Location != nil {
		activeNearby, err := uc.reportRepo.CountActiveNearby(
			ctx, report.ID, *report.Location, uc.scoring.ProximityRadiusMeters)
		if err != nil {
			uc.logger.Error("Active neighbor query failed, skipping report this run",
				zap.String("id", report.ID), zap.Error(err))
			return domain.RecordOutcome{ID: report.ID, Kind: domain.OutcomeFailed, Err: err}
		}

		repairedNearby, err := uc.reportRepo.CountRepairedNearby(
			ctx, report.ID, *report.Location, uc.scoring.ProximityRadiusMeters, repairedSince)
		if err != nil {
			uc.logger.Error("Repaired neighbor query failed, skipping report this run",
				zap.String("id", report.ID), zap.Error(err))
			return domain.RecordOutcome{ID: report.ID, Kind: domain.OutcomeFailed, Err: err}
		}

		// Recurrence near a fixed spot outweighs plain density: a repair
		// followed by a fresh nearby report points at an unresolved root cause.
		score = activeNearby*uc.scoring.ActiveNeighborWeight +
			repairedNearby*uc.scoring.RepairedNeighborWeight
	}

	if err := uc.reportRepo.UpdateScore(ctx, report.ID, score); err != nil {
		uc.logger.Error("Score write failed, skipping report this run",
			zap.String("id", report.ID), zap.Error(err))
		return domain.RecordOutcome{ID: report.ID, Kind: domain.OutcomeFailed, Err: err}
	}

	uc.logger.Debug("Report scored",
		zap.String("id", report.ID), zap.Int("score", score))
	return domain.RecordOutcome{ID: report.ID, Kind: domain.OutcomeProcessed}
}
