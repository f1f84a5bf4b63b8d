package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/leak-priority-service/internal/domain"
)

// MockReportRepository is a mock of ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) EnsureSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReportRepository) Upsert(ctx context.Context, report *domain.LeakReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) ListEligible(ctx context.Context) ([]*domain.EligibleReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EligibleReport), args.Error(1)
}

func (m *MockReportRepository) CountActiveNearby(ctx context.Context, excludeID string, point domain.Point, radiusMeters float64) (int, error) {
	args := m.Called(ctx, excludeID, point, radiusMeters)
	return args.Int(0), args.Error(1)
}

func (m *MockReportRepository) CountRepairedNearby(ctx context.Context, excludeID string, point domain.Point, radiusMeters float64, since time.Time) (int, error) {
	args := m.Called(ctx, excludeID, point, radiusMeters, since)
	return args.Int(0), args.Error(1)
}

func (m *MockReportRepository) UpdateScore(ctx context.Context, id string, score int) error {
	args := m.Called(ctx, id, score)
	return args.Error(0)
}

func (m *MockReportRepository) GetByID(ctx context.Context, id string) (*domain.LeakReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LeakReport), args.Error(1)
}

// MockSubmissionSource is a mock of SubmissionSource
type MockSubmissionSource struct {
	mock.Mock
}

func (m *MockSubmissionSource) Fetch(ctx context.Context) ([]domain.RawSubmission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawSubmission), args.Error(1)
}

// MockRunLocker is a mock of RunLocker
type MockRunLocker struct {
	mock.Mock
}

func (m *MockRunLocker) Acquire(ctx context.Context, job domain.Job) (func(context.Context) error, error) {
	args := m.Called(ctx, job)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func(context.Context) error), args.Error(1)
}

// noopRelease is the release func returned by a successfully acquired lock.
func noopRelease(context.Context) error { return nil }

// MockRunSummaryCache is a mock of RunSummaryCache
type MockRunSummaryCache struct {
	mock.Mock
}

func (m *MockRunSummaryCache) SetLatest(ctx context.Context, summary domain.RunSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockRunSummaryCache) GetLatest(ctx context.Context, job domain.Job) (*domain.RunSummary, error) {
	args := m.Called(ctx, job)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunSummary), args.Error(1)
}
