package repository

import (
	"context"
	"fmt"
	"time"

	"gitpulse/database"
	"gitpulse/models"

	"github.com/jackc/pgx/v5"
)

// DailyStatRepository implements the service.DailyStatRepository interface
type DailyStatRepository struct {
	db *database.DB
	q  queryable
}

// NewDailyStatRepository creates a new daily stat repository
func NewDailyStatRepository(db *database.DB) *DailyStatRepository {
	return &DailyStatRepository{db: db, q: db.Pool}
}

// upsertStatQuery replaces the counters on conflict so re-aggregating the
// same events converges instead of accumulating. Enrichment columns are
// deliberately untouched here; UpdateEnrichment owns them.
const upsertStatQuery = `
	INSERT INTO daily_stats
		(user_id, stat_date, commit_count, push_event_count, issue_count, pull_request_count)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (user_id, stat_date) DO UPDATE SET
		commit_count = EXCLUDED.commit_count,
		push_event_count = EXCLUDED.push_event_count,
		issue_count = EXCLUDED.issue_count,
		pull_request_count = EXCLUDED.pull_request_count,
		updated_at = NOW()
`

// Upsert writes one day's counters for one user
func (r *DailyStatRepository) Upsert(ctx context.Context, stat *models.DailyStat) error {
	_, err := r.q.Exec(ctx, upsertStatQuery,
		stat.UserID,
		stat.StatDate,
		stat.CommitCount,
		stat.PushEventCount,
		stat.IssueCount,
		stat.PullRequestCount,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert daily stat for user %d on %s: %w",
			stat.UserID, stat.DateKey(), err)
	}

	return nil
}

// UpsertMany writes all of one user's day rows in a single transaction,
// so a failed sync never leaves a partial set of days behind.
func (r *DailyStatRepository) UpsertMany(ctx context.Context, stats []*models.DailyStat) error {
	if len(stats) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, stat := range stats {
			if _, err := tx.Exec(ctx, upsertStatQuery,
				stat.UserID,
				stat.StatDate,
				stat.CommitCount,
				stat.PushEventCount,
				stat.IssueCount,
				stat.PullRequestCount,
			); err != nil {
				return fmt.Errorf("failed to upsert daily stat for user %d on %s: %w",
					stat.UserID, stat.DateKey(), err)
			}
		}
		return nil
	})
}

// GetWindow returns the stats for one user with stat_date in [from, to],
// most recent first
func (r *DailyStatRepository) GetWindow(ctx context.Context, userID int64, from, to time.Time) ([]*models.DailyStat, error) {
	query := `
		SELECT id, user_id, stat_date, commit_count, push_event_count,
		       issue_count, pull_request_count, summary, highlights,
		       changed_files, created_at, updated_at
		FROM daily_stats
		WHERE user_id = $1 AND stat_date >= $2 AND stat_date <= $3
		ORDER BY stat_date DESC
	`

	rows, err := r.q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats for user %d: %w", userID, err)
	}
	defer rows.Close()

	var stats []*models.DailyStat
	for rows.Next() {
		var stat models.DailyStat
		if err := rows.Scan(
			&stat.ID,
			&stat.UserID,
			&stat.StatDate,
			&stat.CommitCount,
			&stat.PushEventCount,
			&stat.IssueCount,
			&stat.PullRequestCount,
			&stat.Summary,
			&stat.Highlights,
			&stat.ChangedFiles,
			&stat.CreatedAt,
			&stat.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan daily stat: %w", err)
		}
		stats = append(stats, &stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily stats: %w", err)
	}

	return stats, nil
}

// UpdateEnrichment fills in the best-effort summary fields for one day.
// The row must already exist; enrichment never creates counter rows.
func (r *DailyStatRepository) UpdateEnrichment(ctx context.Context, userID int64, date time.Time, summary string, highlights, changedFiles []string) error {
	query := `
		UPDATE daily_stats
		SET summary = $3, highlights = $4, changed_files = $5, updated_at = NOW()
		WHERE user_id = $1 AND stat_date = $2
	`

	result, err := r.q.Exec(ctx, query, userID, date, summary, highlights, changedFiles)
	if err != nil {
		return fmt.Errorf("failed to update enrichment for user %d on %s: %w",
			userID, date.Format("2006-01-02"), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("no daily stat row for user %d on %s", userID, date.Format("2006-01-02"))
	}

	return nil
}
