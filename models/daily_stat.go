package models

import (
	"time"
)

// DailyStat represents aggregated GitHub activity for one user on one
// calendar date in the configured sync timezone. At most one row exists
// per (user, date); re-syncing the same day replaces the counters.
type DailyStat struct {
	ID               int64     `db:"id"`
	UserID           int64     `db:"user_id"`
	StatDate         time.Time `db:"stat_date"` // date only, midnight in the sync timezone
	CommitCount      int       `db:"commit_count"`
	PushEventCount   int       `db:"push_event_count"`
	IssueCount       int       `db:"issue_count"`
	PullRequestCount int       `db:"pull_request_count"`

	// Enrichment fields, filled in best-effort after the counters are
	// persisted. Left empty when summary generation fails.
	Summary      *string  `db:"summary"`
	Highlights   []string `db:"highlights"`
	ChangedFiles []string `db:"changed_files"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// DateKey returns the stat date formatted as YYYY-MM-DD.
func (s *DailyStat) DateKey() string {
	return s.StatDate.Format("2006-01-02")
}
