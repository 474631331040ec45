package repository

import (
	"context"
	"fmt"

	"gitpulse/database"
	"gitpulse/models"

	"github.com/jackc/pgx/v5"
)

// EngagementStatusRepository implements the service.EngagementStatusRepository interface
type EngagementStatusRepository struct {
	q queryable
}

// NewEngagementStatusRepository creates a new engagement status repository
func NewEngagementStatusRepository(db *database.DB) *EngagementStatusRepository {
	return &EngagementStatusRepository{q: db.Pool}
}

// Upsert overwrites the user's engagement row. updated_at is always
// rewritten so it strictly increases across successful runs.
func (r *EngagementStatusRepository) Upsert(ctx context.Context, status *models.EngagementStatus) error {
	query := `
		INSERT INTO engagement_statuses
			(user_id, status, commits_last_7_days, commits_last_14_days,
			 last_commit_date, recommended_message_type, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			status = EXCLUDED.status,
			commits_last_7_days = EXCLUDED.commits_last_7_days,
			commits_last_14_days = EXCLUDED.commits_last_14_days,
			last_commit_date = EXCLUDED.last_commit_date,
			recommended_message_type = EXCLUDED.recommended_message_type,
			updated_at = NOW()
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		status.UserID,
		status.Status,
		status.CommitsLast7Days,
		status.CommitsLast14Days,
		status.LastCommitDate,
		status.RecommendedMessageType,
	).Scan(&status.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert engagement status for user %d: %w", status.UserID, err)
	}

	return nil
}

// GetByUserID retrieves a user's engagement status, or nil if the user
// has never been classified
func (r *EngagementStatusRepository) GetByUserID(ctx context.Context, userID int64) (*models.EngagementStatus, error) {
	query := `
		SELECT user_id, status, commits_last_7_days, commits_last_14_days,
		       last_commit_date, recommended_message_type, updated_at
		FROM engagement_statuses
		WHERE user_id = $1
	`

	var status models.EngagementStatus
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&status.UserID,
		&status.Status,
		&status.CommitsLast7Days,
		&status.CommitsLast14Days,
		&status.LastCommitDate,
		&status.RecommendedMessageType,
		&status.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get engagement status for user %d: %w", userID, err)
	}

	return &status, nil
}
