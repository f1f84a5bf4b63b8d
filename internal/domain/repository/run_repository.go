package repository

import (
	"context"

	"github.com/leak-priority-service/internal/domain"
)

// RunLocker serializes the sync and score passes. The scorer reads store
// state that a concurrent sync could mutate mid-run, so both passes take the
// same lock before touching the store.
type RunLocker interface {
	// Acquire takes the shared run lock for the named job. Returns
	// ErrRunLockHeld when another run is in progress.
	Acquire(ctx context.Context, job domain.Job) (func(context.Context) error, error)
}

// RunSummaryCache stores the most recent summary per job for the ops surface.
type RunSummaryCache interface {
	SetLatest(ctx context.Context, summary domain.RunSummary) error
	GetLatest(ctx context.Context, job domain.Job) (*domain.RunSummary, error)
}
