package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/leak-priority-service/internal/domain"
	"github.com/leak-priority-service/internal/domain/repository"
)

// ReportRepositorySuite runs against a real PostGIS instance. Set
// TEST_DATABASE_DSN to enable it, e.g.
// "host=localhost port=5432 user=postgres password=postgres dbname=leaks_test sslmode=disable".
type ReportRepositorySuite struct {
	suite.Suite
	db   *sqlx.DB
	repo repository.ReportRepository
}

func TestReportRepositorySuite(t *testing.T) {
	if os.Getenv("TEST_DATABASE_DSN") == "" {
		t.Skip("TEST_DATABASE_DSN not set, skipping PostGIS integration tests")
	}
	suite.Run(t, new(ReportRepositorySuite))
}

func (s *ReportRepositorySuite) SetupSuite() {
	db, err := sqlx.Connect("postgres", os.Getenv("TEST_DATABASE_DSN"))
	s.Require().NoError(err)
	s.db = db
	s.repo = NewReportRepository(NewDBForTest(db, zap.NewNop()))

	if err := s.repo.EnsureSchema(context.Background()); err != nil {
		s.T().Skipf("cannot create schema (PostGIS missing?): %v", err)
	}
}

func (s *ReportRepositorySuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *ReportRepositorySuite) SetupTest() {
	_, err := s.db.Exec("TRUNCATE leak_reports")
	s.Require().NoError(err)
}

func (s *ReportRepositorySuite) insert(id string, submitted time.Time, loc *domain.Point, status domain.Status) {
	report := &domain.LeakReport{
		ID:          id,
		SubmittedAt: submitted,
		Location:    loc,
	}
	s.Require().NoError(s.repo.Upsert(context.Background(), report))
	if status != "" && status != domain.StatusReported {
		_, err := s.db.Exec("UPDATE leak_reports SET status = $1 WHERE id = $2", string(status), id)
		s.Require().NoError(err)
	}
}

// Re-upserting the same id replaces the record instead of duplicating it.
func (s *ReportRepositorySuite) TestUpsertIsIdempotent() {
	ctx := context.Background()
	submitted := time.Date(2026, 8, 19, 9, 30, 0, 0, time.UTC)

	first := &domain.LeakReport{
		ID:          "401",
		SubmittedAt: submitted,
		Location:    &domain.Point{Lat: 41.3851, Lon: 2.1734},
		Severity:    strPtr("low"),
	}
	s.Require().NoError(s.repo.Upsert(ctx, first))

	first.Severity = strPtr("high")
	s.Require().NoError(s.repo.Upsert(ctx, first))

	got, err := s.repo.GetByID(ctx, "401")
	s.Require().NoError(err)
	s.Equal("high", *got.Severity)

	var total int
	s.Require().NoError(s.db.Get(&total, "SELECT COUNT(*) FROM leak_reports"))
	s.Equal(1, total)
}

func (s *ReportRepositorySuite) TestListEligibleOrdersBySubmissionTime() {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	loc := &domain.Point{Lat: 41.3851, Lon: 2.1734}

	s.insert("402", now.Add(-time.Hour), loc, domain.StatusReported)
	s.insert("403", now.Add(-48*time.Hour), loc, domain.StatusUnderInspection)
	s.insert("404", now.Add(-24*time.Hour), loc, domain.StatusRepaired)

	eligible, err := s.repo.ListEligible(context.Background())
	s.Require().NoError(err)
	s.Require().Len(eligible, 2)
	s.Equal("403", eligible[0].ID)
	s.Equal("402", eligible[1].ID)
}

// A neighbor ~50 m away counts; one ~500 m away does not. A repaired report
// inside the window counts toward recurrence, one outside it does not.
func (s *ReportRepositorySuite) TestProximityCounts() {
	ctx := context.Background()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	since := now.Add(-30 * 24 * time.Hour)

	base := domain.Point{Lat: 41.38510, Lon: 2.17340}
	near := &domain.Point{Lat: 41.38555, Lon: 2.17340}  // ~50 m north
	far := &domain.Point{Lat: 41.38960, Lon: 2.17340}   // ~500 m north

	s.insert("410", now.Add(-time.Hour), &base, domain.StatusReported)
	s.insert("411", now.Add(-2*time.Hour), near, domain.StatusReported)
	s.insert("412", now.Add(-3*time.Hour), far, domain.StatusReported)
	s.insert("413", now.Add(-10*24*time.Hour), near, domain.StatusRepaired)
	s.insert("414", now.Add(-60*24*time.Hour), near, domain.StatusRepaired)

	active, err := s.repo.CountActiveNearby(ctx, "410", base, 100)
	s.Require().NoError(err)
	s.Equal(1, active)

	repaired, err := s.repo.CountRepairedNearby(ctx, "410", base, 100, since)
	s.Require().NoError(err)
	s.Equal(1, repaired)
}

// Both neighbor queries have inclusive boundaries: ST_DWithin is
// distance <= radius and the recency filter is submitted_at >= since. The
// latitude offsets bracket the radius (one degree of latitude is ~111.06 km
// at 41.4N, so 0.00089 deg is ~98.8 m and 0.00091 deg is ~101.1 m).
func (s *ReportRepositorySuite) TestProximityCountBoundaries() {
	ctx := context.Background()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	since := now.Add(-30 * 24 * time.Hour)

	base := domain.Point{Lat: 41.38510, Lon: 2.17340}
	justInside := &domain.Point{Lat: base.Lat + 0.00089, Lon: base.Lon}
	justOutside := &domain.Point{Lat: base.Lat + 0.00091, Lon: base.Lon}
	near := &domain.Point{Lat: base.Lat + 0.00045, Lon: base.Lon}

	s.insert("430", now.Add(-time.Hour), &base, domain.StatusReported)
	s.insert("431", now.Add(-2*time.Hour), justInside, domain.StatusReported)
	s.insert("432", now.Add(-3*time.Hour), justOutside, domain.StatusReported)
	s.insert("433", since, near, domain.StatusRepaired)
	s.insert("434", since.Add(-time.Second), near, domain.StatusRepaired)

	// The fixtures must actually straddle the radius, or the assertions
	// below prove nothing.
	var dIn, dOut float64
	s.Require().NoError(s.db.Get(&dIn, `
		SELECT ST_Distance(a.location::geography, b.location::geography)
		FROM leak_reports a, leak_reports b WHERE a.id = '430' AND b.id = '431'`))
	s.Require().NoError(s.db.Get(&dOut, `
		SELECT ST_Distance(a.location::geography, b.location::geography)
		FROM leak_reports a, leak_reports b WHERE a.id = '430' AND b.id = '432'`))
	s.Less(dIn, 100.0)
	s.Greater(dOut, 100.0)

	active, err := s.repo.CountActiveNearby(ctx, "430", base, 100)
	s.Require().NoError(err)
	s.Equal(1, active)

	repaired, err := s.repo.CountRepairedNearby(ctx, "430", base, 100, since)
	s.Require().NoError(err)
	s.Equal(1, repaired)
}

func (s *ReportRepositorySuite) TestUpdateScore() {
	ctx := context.Background()
	s.insert("420", time.Now().UTC(), &domain.Point{Lat: 41.3851, Lon: 2.1734}, domain.StatusReported)

	s.Require().NoError(s.repo.UpdateScore(ctx, "420", 13))

	got, err := s.repo.GetByID(ctx, "420")
	s.Require().NoError(err)
	s.Equal(13, got.PriorityScore)
}
