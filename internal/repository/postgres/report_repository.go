package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/leak-priority-service/internal/domain"
	"github.com/leak-priority-service/internal/domain/repository"
	apperrors "github.com/leak-priority-service/internal/pkg/errors"
	"go.uber.org/zap"
)

const createSchemaSQL = `
CREATE TABLE IF NOT EXISTS leak_reports (
	id VARCHAR(255) PRIMARY KEY,
	submitted_at TIMESTAMP WITH TIME ZONE,
	location GEOMETRY(Point, 4326),
	category VARCHAR(50),
	severity VARCHAR(50),
	source_type VARCHAR(50),
	description TEXT,
	photo_url TEXT,
	priority_score INTEGER NOT NULL DEFAULT 0,
	status VARCHAR(50) NOT NULL DEFAULT 'reported',
	tags JSONB,
	created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_leak_reports_location ON leak_reports USING GIST(location);
`

type reportRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewReportRepository(db *DB) repository.ReportRepository {
	return &reportRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *reportRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSchemaSQL); err != nil {
		r.logger.Error("Failed to ensure leak_reports schema", zap.Error(err))
		return apperrors.ErrStoreUnavailable.Wrap(err)
	}
	return nil
}

// Upsert writes the report in a single statement, so one record either
// commits all its fields or none. created_at is set only on insert.
func (r *reportRepository) Upsert(ctx context.Context, report *domain.LeakReport) error {
	query := `
		INSERT INTO leak_reports (
			id, submitted_at, location, category, severity,
			source_type, description, photo_url, tags
		) VALUES (
			$1, $2,
			CASE WHEN $3::float8 IS NULL THEN NULL
			     ELSE ST_SetSRID(ST_MakePoint($3, $4), 4326) END,
			$5, $6, $7, $8, $9, $10
		)
		ON CONFLICT (id) DO UPDATE SET
			submitted_at = EXCLUDED.submitted_at,
			location = EXCLUDED.location,
			category = EXCLUDED.category,
			severity = EXCLUDED.severity,
			source_type = EXCLUDED.source_type,
			description = EXCLUDED.description,
			photo_url = EXCLUDED.photo_url,
			tags = EXCLUDED.tags,
			updated_at = NOW()
	`

	var lon, lat *float64
	if report.Location != nil {
		lon, lat = &report.Location.Lon, &report.Location.Lat
	}

	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.SubmittedAt, lon, lat,
		report.Category, report.Severity, report.SourceType,
		report.Description, report.PhotoURL, report.Tags,
	)
	if err != nil {
		r.logger.Error("Failed to upsert leak report",
			zap.String("id", report.ID), zap.Error(err))
		return apperrors.ErrRecordWriteFailure.Wrap(err)
	}

	return nil
}

func (r *reportRepository) ListEligible(ctx context.Context) ([]*domain.EligibleReport, error) {
	query := `
		SELECT id, submitted_at, status, ST_Y(location) AS lat, ST_X(location) AS lon
		FROM leak_reports
		WHERE status IN ($1, $2)
		ORDER BY submitted_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query,
		string(domain.StatusReported), string(domain.StatusUnderInspection))
	if err != nil {
		r.logger.Error("Failed to list eligible reports", zap.Error(err))
		return nil, apperrors.ErrStoreUnavailable.Wrap(err)
	}
	defer rows.Close()

	var reports []*domain.EligibleReport
	for rows.Next() {
		var (
			rep      domain.EligibleReport
			lat, lon sql.NullFloat64
		)
		if err := rows.Scan(&rep.ID, &rep.SubmittedAt, &rep.Status, &lat, &lon); err != nil {
			r.logger.Error("Failed to scan eligible report", zap.Error(err))
			return nil, apperrors.ErrStoreUnavailable.Wrap(err)
		}
		if lat.Valid && lon.Valid {
			rep.Location = &domain.Point{Lat: lat.Float64, Lon: lon.Float64}
		}
		reports = append(reports, &rep)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.ErrStoreUnavailable.Wrap(err)
	}

	return reports, nil
}

// CountActiveNearby counts active reports within radiusMeters of the point,
// excluding the report being scored. ST_DWithin over geography gives geodesic
// distance with an inclusive boundary: exactly-at-radius neighbors count.
func (r *reportRepository) CountActiveNearby(
	ctx context.Context,
	excludeID string,
	point domain.Point,
	radiusMeters float64,
) (int, error) {
	query := `
		SELECT COUNT(id)
		FROM leak_reports
		WHERE id != $1
		  AND status IN ($2, $3)
		  AND location IS NOT NULL
		  AND ST_DWithin(
			location::geography,
			ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography,
			$6
		  )
	`

	var count int
	err := r.db.QueryRowContext(ctx, query,
		excludeID,
		string(domain.StatusReported), string(domain.StatusUnderInspection),
		point.Lon, point.Lat, radiusMeters,
	).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count active neighbors",
			zap.String("id", excludeID), zap.Error(err))
		return 0, apperrors.ErrScoreQueryFailure.Wrap(err)
	}

	return count, nil
}

// CountRepairedNearby counts repaired reports submitted at or after since
// within radiusMeters of the point. The recency boundary is inclusive.
func (r *reportRepository) CountRepairedNearby(
	ctx context.Context,
	excludeID string,
	point domain.Point,
	radiusMeters float64,
	since time.Time,
) (int, error) {
	query := `
		SELECT COUNT(id)
		FROM leak_reports
		WHERE id != $1
		  AND status = $2
		  AND submitted_at >= $3
		  AND location IS NOT NULL
		  AND ST_DWithin(
			location::geography,
			ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography,
			$6
		  )
	`

	var count int
	err := r.db.QueryRowContext(ctx, query,
		excludeID, string(domain.StatusRepaired), since,
		point.Lon, point.Lat, radiusMeters,
	).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count repaired neighbors",
			zap.String("id", excludeID), zap.Error(err))
		return 0, apperrors.ErrScoreQueryFailure.Wrap(err)
	}

	return count, nil
}

func (r *reportRepository) UpdateScore(ctx context.Context, id string, score int) error {
	query := `
		UPDATE leak_reports
		SET priority_score = $1, updated_at = NOW()
		WHERE id = $2
	`

	if _, err := r.db.ExecContext(ctx, query, score, id); err != nil {
		r.logger.Error("Failed to update priority score",
			zap.String("id", id), zap.Int("score", score), zap.Error(err))
		return apperrors.ErrScoreQueryFailure.Wrap(err)
	}

	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.LeakReport, error) {
	query := `
		SELECT id, submitted_at, status, category, severity, source_type,
		       description, photo_url, priority_score, tags,
		       ST_Y(location) AS lat, ST_X(location) AS lon,
		       created_at, updated_at
		FROM leak_reports
		WHERE id = $1
	`

	var (
		rep      domain.LeakReport
		lat, lon sql.NullFloat64
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rep.ID, &rep.SubmittedAt, &rep.Status, &rep.Category, &rep.Severity,
		&rep.SourceType, &rep.Description, &rep.PhotoURL, &rep.PriorityScore,
		&rep.Tags, &lat, &lon, &rep.CreatedAt, &rep.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrReportNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get leak report by ID",
			zap.String("id", id), zap.Error(err))
		return nil, apperrors.ErrStoreUnavailable.Wrap(err)
	}
	if lat.Valid && lon.Valid {
		rep.Location = &domain.Point{Lat: lat.Float64, Lon: lon.Float64}
	}

	return &rep, nil
}
