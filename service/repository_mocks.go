package service

import (
	"context"
	"time"

	"gitpulse/github"
	"gitpulse/models"

	"github.com/stretchr/testify/mock"
)

// MockTrackedUserRepository is a mock implementation of TrackedUserRepository
type MockTrackedUserRepository struct {
	mock.Mock
}

func (m *MockTrackedUserRepository) GetByID(ctx context.Context, id int64) (*models.TrackedUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrackedUser), args.Error(1)
}

func (m *MockTrackedUserRepository) GetAll(ctx context.Context) ([]*models.TrackedUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TrackedUser), args.Error(1)
}

// MockDailyStatRepository is a mock implementation of DailyStatRepository
type MockDailyStatRepository struct {
	mock.Mock
}

func (m *MockDailyStatRepository) Upsert(ctx context.Context, stat *models.DailyStat) error {
	args := m.Called(ctx, stat)
	return args.Error(0)
}

func (m *MockDailyStatRepository) UpsertMany(ctx context.Context, stats []*models.DailyStat) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func (m *MockDailyStatRepository) GetWindow(ctx context.Context, userID int64, from, to time.Time) ([]*models.DailyStat, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DailyStat), args.Error(1)
}

func (m *MockDailyStatRepository) UpdateEnrichment(ctx context.Context, userID int64, date time.Time, summary string, highlights, changedFiles []string) error {
	args := m.Called(ctx, userID, date, summary, highlights, changedFiles)
	return args.Error(0)
}

// MockEngagementStatusRepository is a mock implementation of EngagementStatusRepository
type MockEngagementStatusRepository struct {
	mock.Mock
}

func (m *MockEngagementStatusRepository) Upsert(ctx context.Context, status *models.EngagementStatus) error {
	args := m.Called(ctx, status)
	return args.Error(0)
}

func (m *MockEngagementStatusRepository) GetByUserID(ctx context.Context, userID int64) (*models.EngagementStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EngagementStatus), args.Error(1)
}

// MockSyncCheckpointRepository is a mock implementation of SyncCheckpointRepository
type MockSyncCheckpointRepository struct {
	mock.Mock
}

func (m *MockSyncCheckpointRepository) Upsert(ctx context.Context, checkpoint *models.SyncCheckpoint) error {
	args := m.Called(ctx, checkpoint)
	return args.Error(0)
}

func (m *MockSyncCheckpointRepository) GetByUserID(ctx context.Context, userID int64) (*models.SyncCheckpoint, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SyncCheckpoint), args.Error(1)
}

func (m *MockSyncCheckpointRepository) GetFreshUserIDs(ctx context.Context, cutoff time.Time) (map[int64]bool, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]bool), args.Error(1)
}

// MockSyncRunRepository is a mock implementation of SyncRunRepository
type MockSyncRunRepository struct {
	mock.Mock
}

func (m *MockSyncRunRepository) Create(ctx context.Context, run *models.SyncRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockSyncRunRepository) GetLatest(ctx context.Context) (*models.SyncRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SyncRun), args.Error(1)
}

// MockEventSource is a mock implementation of EventSource
type MockEventSource struct {
	mock.Mock
}

func (m *MockEventSource) ListUserEvents(ctx context.Context, username, token string, page int) ([]github.Event, error) {
	args := m.Called(ctx, username, token, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]github.Event), args.Error(1)
}

func (m *MockEventSource) ListRepoCommits(ctx context.Context, owner, repo, token string, since, until time.Time) ([]github.RepoCommit, error) {
	args := m.Called(ctx, owner, repo, token, since, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]github.RepoCommit), args.Error(1)
}

func (m *MockEventSource) GetCommit(ctx context.Context, owner, repo, token, sha string) (*github.RepoCommit, error) {
	args := m.Called(ctx, owner, repo, token, sha)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.RepoCommit), args.Error(1)
}

// MockSummarizer is a mock implementation of Summarizer
type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) SummarizeDay(ctx context.Context, repo string, date time.Time, commits []github.RepoCommit) (*DaySummary, error) {
	args := m.Called(ctx, repo, date, commits)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DaySummary), args.Error(1)
}
