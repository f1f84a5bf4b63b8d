package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/leak-priority-service/internal/domain"
	"github.com/leak-priority-service/internal/domain/repository"
	apperrors "github.com/leak-priority-service/internal/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const runLockKey = "leak_reports:run_lock"

// releaseLockScript deletes the lock only when the caller still owns it, so a
// run that outlived its TTL cannot release a lock taken over by another run.
const releaseLockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

type runLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRunLocker builds the shared sync/score run lock. The TTL bounds how long
// a crashed run can block the next one.
func NewRunLocker(redis *Redis, ttl time.Duration) repository.RunLocker {
	return &runLocker{
		client: redis.Client(),
		ttl:    ttl,
		logger: redis.logger,
	}
}

func (l *runLocker) Acquire(ctx context.Context, job domain.Job) (func(context.Context) error, error) {
	owner := fmt.Sprintf("%s:%s", job, uuid.NewString())

	ok, err := l.client.SetNX(ctx, runLockKey, owner, l.ttl).Result()
	if err != nil {
		l.logger.Error("Failed to acquire run lock",
			zap.String("job", string(job)), zap.Error(err))
		return nil, fmt.Errorf("run lock acquire: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrRunLockHeld
	}

	l.logger.Debug("Run lock acquired",
		zap.String("job", string(job)), zap.String("owner", owner))

	release := func(ctx context.Context) error {
		if err := l.client.Eval(ctx, releaseLockScript, []string{runLockKey}, owner).Err(); err != nil {
			l.logger.Error("Failed to release run lock",
				zap.String("job", string(job)), zap.Error(err))
			return fmt.Errorf("run lock release: %w", err)
		}
		return nil
	}
	return release, nil
}
