package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/leak-priority-service/internal/domain"
	"github.com/leak-priority-service/internal/domain/repository"
	apperrors "github.com/leak-priority-service/internal/pkg/errors"
	"github.com/leak-priority-service/internal/worker/jobs"
	"go.uber.org/zap"
)

// JobHandler exposes manual triggers for the batch jobs and the latest run
// summaries. It runs the same usecases the scheduled workers do.
type JobHandler struct {
	syncUC    jobs.BatchRunner
	scoreUC   jobs.BatchRunner
	summaries repository.RunSummaryCache
	logger    *zap.Logger
}

func NewJobHandler(
	syncUC jobs.BatchRunner,
	scoreUC jobs.BatchRunner,
	summaries repository.RunSummaryCache,
	logger *zap.Logger,
) *JobHandler {
	return &JobHandler{
		syncUC:    syncUC,
		scoreUC:   scoreUC,
		summaries: summaries,
		logger:    logger,
	}
}

// TriggerSync runs one sync pass inline and returns its summary.
func (h *JobHandler) TriggerSync(c *fiber.Ctx) error {
	return h.trigger(c, domain.JobSync, h.syncUC)
}

// TriggerScore runs one scoring pass inline and returns its summary.
func (h *JobHandler) TriggerScore(c *fiber.Ctx) error {
	return h.trigger(c, domain.JobScore, h.scoreUC)
}

func (h *JobHandler) trigger(c *fiber.Ctx, job domain.Job, runner jobs.BatchRunner) error {
	summary, _, err := runner.Run(c.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrRunLockHeld) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": apperrors.ErrRunLockHeld,
			})
		}
		h.logger.Error("Manual job trigger failed",
			zap.String("job", string(job)), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(summary)
}

// LatestRuns returns the most recent summary for each job.
func (h *JobHandler) LatestRuns(c *fiber.Ctx) error {
	result := fiber.Map{}

	for _, job := range []domain.Job{domain.JobSync, domain.JobScore} {
		summary, err := h.summaries.GetLatest(c.Context(), job)
		if err != nil {
			h.logger.Error("Failed to read latest run summary",
				zap.String("job", string(job)), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to read run summaries",
			})
		}
		result[string(job)] = summary
	}

	return c.JSON(result)
}
