package repository

import (
	"context"

	"github.com/leak-priority-service/internal/domain"
)

// SubmissionSource yields raw field-report records on demand.
//
// Fetch returns the full set of submissions currently held by the source; an
// empty slice means no data. Transport-level failures (network error,
// non-success status) are reported as ErrSourceUnavailable, never as an
// empty result.
type SubmissionSource interface {
	Fetch(ctx context.Context) ([]domain.RawSubmission, error)
}
