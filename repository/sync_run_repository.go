package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gitpulse/database"
	"gitpulse/models"

	"github.com/jackc/pgx/v5"
)

// SyncRunRepository implements the service.SyncRunRepository interface
type SyncRunRepository struct {
	q queryable
}

// NewSyncRunRepository creates a new sync run repository
func NewSyncRunRepository(db *database.DB) *SyncRunRepository {
	return &SyncRunRepository{q: db.Pool}
}

// Create persists the record of a completed sync invocation
func (r *SyncRunRepository) Create(ctx context.Context, run *models.SyncRun) error {
	summaryJSON, err := json.Marshal(run.ExecutionSummary)
	if err != nil {
		return fmt.Errorf("failed to marshal execution summary: %w", err)
	}

	query := `
		INSERT INTO sync_runs
			(id, started_at, finished_at, total_users, processed_users,
			 success_count, failure_count, total_days_synced, execution_summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err = r.q.QueryRow(ctx, query,
		run.ID,
		run.StartedAt,
		run.FinishedAt,
		run.TotalUsers,
		run.ProcessedUsers,
		run.SuccessCount,
		run.FailureCount,
		run.TotalDaysSynced,
		summaryJSON,
	).Scan(&run.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create sync run %s: %w", run.ID, err)
	}

	return nil
}

// GetLatest returns the most recent sync run, or nil if none exists
func (r *SyncRunRepository) GetLatest(ctx context.Context) (*models.SyncRun, error) {
	query := `
		SELECT id, started_at, finished_at, total_users, processed_users,
		       success_count, failure_count, total_days_synced,
		       execution_summary, created_at
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT 1
	`

	var run models.SyncRun
	var summaryJSON []byte

	err := r.q.QueryRow(ctx, query).Scan(
		&run.ID,
		&run.StartedAt,
		&run.FinishedAt,
		&run.TotalUsers,
		&run.ProcessedUsers,
		&run.SuccessCount,
		&run.FailureCount,
		&run.TotalDaysSynced,
		&summaryJSON,
		&run.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest sync run: %w", err)
	}

	if len(summaryJSON) > 0 {
		if err := json.Unmarshal(summaryJSON, &run.ExecutionSummary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal execution summary: %w", err)
		}
	}

	return &run, nil
}
