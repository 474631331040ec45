package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncRun represents one completed invocation of the activity sync batch
type SyncRun struct {
	ID               uuid.UUID              `db:"id"`
	StartedAt        time.Time              `db:"started_at"`
	FinishedAt       time.Time              `db:"finished_at"`
	TotalUsers       int                    `db:"total_users"`
	ProcessedUsers   int                    `db:"processed_users"`
	SuccessCount     int                    `db:"success_count"`
	FailureCount     int                    `db:"failure_count"`
	TotalDaysSynced  int                    `db:"total_days_synced"`
	ExecutionSummary map[string]interface{} `db:"execution_summary"`
	CreatedAt        time.Time              `db:"created_at"`
}
