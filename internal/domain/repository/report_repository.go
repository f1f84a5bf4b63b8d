package repository

import (
	"context"
	"time"

	"github.com/leak-priority-service/internal/domain"
)

// ReportRepository is the spatial store contract for leak reports.
//
// ListEligible deliberately hides the full-table rescan behind this interface
// so an incremental "changed since last run" strategy can replace it without
// touching the scorer.
type ReportRepository interface {
	// EnsureSchema creates the leak_reports table and its spatial index when
	// they do not exist yet.
	EnsureSchema(ctx context.Context) error

	// Upsert writes one canonical report. A report with the same id is
	// replaced in place (created_at preserved, updated_at refreshed); a new
	// id is inserted with default status and zero score. The write is atomic
	// per record.
	Upsert(ctx context.Context, report *domain.LeakReport) error

	// ListEligible returns reports with status reported or under_inspection,
	// ordered ascending by submitted_at.
	ListEligible(ctx context.Context) ([]*domain.EligibleReport, error)

	// CountActiveNearby counts reports other than excludeID with an active
	// status whose location lies within radiusMeters of the point, boundary
	// inclusive.
	CountActiveNearby(ctx context.Context, excludeID string, point domain.Point, radiusMeters float64) (int, error)

	// CountRepairedNearby counts repaired reports submitted at or after
	// since whose location lies within radiusMeters of the point.
	CountRepairedNearby(ctx context.Context, excludeID string, point domain.Point, radiusMeters float64, since time.Time) (int, error)

	// UpdateScore writes the recomputed priority score and refreshes
	// updated_at.
	UpdateScore(ctx context.Context, id string, score int) error

	// GetByID returns one report, ErrReportNotFound when absent.
	GetByID(ctx context.Context, id string) (*domain.LeakReport, error)
}
