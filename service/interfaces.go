package service

import (
	"context"
	"time"

	"gitpulse/github"
	"gitpulse/models"
)

// TrackedUserRepository defines the interface for tracked user data access
type TrackedUserRepository interface {
	// GetByID retrieves a tracked user by ID
	GetByID(ctx context.Context, id int64) (*models.TrackedUser, error)

	// GetAll returns all tracked users ordered by ID
	GetAll(ctx context.Context) ([]*models.TrackedUser, error)
}

// DailyStatRepository defines the interface for daily stat persistence
type DailyStatRepository interface {
	// Upsert writes one day's counters for one user
	Upsert(ctx context.Context, stat *models.DailyStat) error

	// UpsertMany writes all of one user's day rows atomically
	UpsertMany(ctx context.Context, stats []*models.DailyStat) error

	// GetWindow returns the stats with stat_date in [from, to], most recent first
	GetWindow(ctx context.Context, userID int64, from, to time.Time) ([]*models.DailyStat, error)

	// UpdateEnrichment fills in the summary fields for an existing day row
	UpdateEnrichment(ctx context.Context, userID int64, date time.Time, summary string, highlights, changedFiles []string) error
}

// EngagementStatusRepository defines the interface for engagement status persistence
type EngagementStatusRepository interface {
	// Upsert overwrites the user's engagement row
	Upsert(ctx context.Context, status *models.EngagementStatus) error

	// GetByUserID retrieves a user's engagement status, nil if never classified
	GetByUserID(ctx context.Context, userID int64) (*models.EngagementStatus, error)
}

// SyncCheckpointRepository defines the interface for per-user sync checkpoints
type SyncCheckpointRepository interface {
	// Upsert records a successful sync for one user
	Upsert(ctx context.Context, checkpoint *models.SyncCheckpoint) error

	// GetByUserID retrieves one user's checkpoint, nil if never synced
	GetByUserID(ctx context.Context, userID int64) (*models.SyncCheckpoint, error)

	// GetFreshUserIDs returns IDs of users synced at or after the cutoff
	GetFreshUserIDs(ctx context.Context, cutoff time.Time) (map[int64]bool, error)
}

// SyncRunRepository defines the interface for run record persistence
type SyncRunRepository interface {
	// Create persists the record of a completed sync invocation
	Create(ctx context.Context, run *models.SyncRun) error

	// GetLatest returns the most recent sync run, nil if none exists
	GetLatest(ctx context.Context) (*models.SyncRun, error)
}

// EventSource fetches a bounded page of a user's activity events.
// Implemented by the GitHub client; mocked in tests.
type EventSource interface {
	// ListUserEvents fetches one page of public activity events, page numbering from 1
	ListUserEvents(ctx context.Context, username, token string, page int) ([]github.Event, error)

	// ListRepoCommits fetches the commits in [since, until) on one repository
	ListRepoCommits(ctx context.Context, owner, repo, token string, since, until time.Time) ([]github.RepoCommit, error)

	// GetCommit fetches one commit with its changed-file list
	GetCommit(ctx context.Context, owner, repo, token, sha string) (*github.RepoCommit, error)
}

// DaySummary is the enrichment produced for one user-day
type DaySummary struct {
	Summary      string
	Highlights   []string
	ChangedFiles []string
}

// Summarizer turns a day's commits into prose. Best-effort: a failure
// is logged and the day's enrichment fields stay empty.
type Summarizer interface {
	SummarizeDay(ctx context.Context, repo string, date time.Time, commits []github.RepoCommit) (*DaySummary, error)
}

// SyncService defines the interface for the batch sync orchestrator
type SyncService interface {
	// Run executes one sync invocation and returns its report. The
	// returned error is non-nil only for whole-run failures; per-user
	// failures are recorded inside the report.
	Run(ctx context.Context) (*models.RunReport, error)

	// LatestRun returns the report summary of the most recent persisted run
	LatestRun(ctx context.Context) (*models.SyncRun, error)
}
