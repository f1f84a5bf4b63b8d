package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/leak-priority-service/internal/domain"
	"github.com/leak-priority-service/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type runSummaryCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRunSummaryCache stores the latest run summary per job so the ops server
// can report it without touching the store.
func NewRunSummaryCache(redis *Redis) repository.RunSummaryCache {
	return &runSummaryCache{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func summaryKey(job domain.Job) string {
	return fmt.Sprintf("leak_reports:last_run:%s", job)
}

func (c *runSummaryCache) SetLatest(ctx context.Context, summary domain.RunSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}

	if err := c.client.Set(ctx, summaryKey(summary.Job), payload, 0).Err(); err != nil {
		c.logger.Error("Failed to cache run summary",
			zap.String("job", string(summary.Job)), zap.Error(err))
		return fmt.Errorf("cache run summary: %w", err)
	}

	return nil
}

func (c *runSummaryCache) GetLatest(ctx context.Context, job domain.Job) (*domain.RunSummary, error) {
	val, err := c.client.Get(ctx, summaryKey(job)).Bytes()
	if err == redis.Nil {
		return nil, nil // no run recorded yet
	}
	if err != nil {
		c.logger.Error("Failed to read run summary",
			zap.String("job", string(job)), zap.Error(err))
		return nil, fmt.Errorf("read run summary: %w", err)
	}

	var summary domain.RunSummary
	if err := json.Unmarshal(val, &summary); err != nil {
		return nil, fmt.Errorf("unmarshal run summary: %w", err)
	}

	return &summary, nil
}
