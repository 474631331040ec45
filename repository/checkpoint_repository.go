package repository

import (
	"context"
	"fmt"
	"time"

	"gitpulse/database"
	"gitpulse/models"

	"github.com/jackc/pgx/v5"
)

// SyncCheckpointRepository implements the service.SyncCheckpointRepository interface
type SyncCheckpointRepository struct {
	q queryable
}

// NewSyncCheckpointRepository creates a new sync checkpoint repository
func NewSyncCheckpointRepository(db *database.DB) *SyncCheckpointRepository {
	return &SyncCheckpointRepository{q: db.Pool}
}

// Upsert records a successful sync for one user
func (r *SyncCheckpointRepository) Upsert(ctx context.Context, checkpoint *models.SyncCheckpoint) error {
	query := `
		INSERT INTO sync_checkpoints (user_id, last_run_id, last_synced_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			last_run_id = EXCLUDED.last_run_id,
			last_synced_at = EXCLUDED.last_synced_at
	`

	_, err := r.q.Exec(ctx, query,
		checkpoint.UserID,
		checkpoint.LastRunID,
		checkpoint.LastSyncedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert sync checkpoint for user %d: %w", checkpoint.UserID, err)
	}

	return nil
}

// GetByUserID retrieves one user's checkpoint, or nil if the user has
// never completed a sync
func (r *SyncCheckpointRepository) GetByUserID(ctx context.Context, userID int64) (*models.SyncCheckpoint, error) {
	query := `
		SELECT user_id, last_run_id, last_synced_at
		FROM sync_checkpoints
		WHERE user_id = $1
	`

	var checkpoint models.SyncCheckpoint
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&checkpoint.UserID,
		&checkpoint.LastRunID,
		&checkpoint.LastSyncedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync checkpoint for user %d: %w", userID, err)
	}

	return &checkpoint, nil
}

// GetFreshUserIDs returns the IDs of users whose checkpoint is at or
// after the cutoff. Those users count as already processed this cycle.
func (r *SyncCheckpointRepository) GetFreshUserIDs(ctx context.Context, cutoff time.Time) (map[int64]bool, error) {
	query := `
		SELECT user_id
		FROM sync_checkpoints
		WHERE last_synced_at >= $1
	`

	rows, err := r.q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get fresh sync checkpoints: %w", err)
	}
	defer rows.Close()

	fresh := make(map[int64]bool)
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan sync checkpoint: %w", err)
		}
		fresh[userID] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sync checkpoints: %w", err)
	}

	return fresh, nil
}
