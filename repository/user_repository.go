package repository

import (
	"context"
	"fmt"

	"gitpulse/database"
	"gitpulse/models"

	"github.com/jackc/pgx/v5"
)

// TrackedUserRepository implements the service.TrackedUserRepository interface
type TrackedUserRepository struct {
	q queryable
}

// NewTrackedUserRepository creates a new tracked user repository
func NewTrackedUserRepository(db *database.DB) *TrackedUserRepository {
	return &TrackedUserRepository{q: db.Pool}
}

const trackedUserColumns = `id, github_username, github_token, discord_id, primary_repo, created_at, updated_at`

// GetByID retrieves a tracked user by ID
func (r *TrackedUserRepository) GetByID(ctx context.Context, id int64) (*models.TrackedUser, error) {
	query := `
		SELECT ` + trackedUserColumns + `
		FROM tracked_users
		WHERE id = $1
	`

	var user models.TrackedUser
	err := r.q.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.GithubUsername,
		&user.GithubToken,
		&user.DiscordID,
		&user.PrimaryRepo,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tracked user %d: %w", id, err)
	}

	return &user, nil
}

// GetAll returns all tracked users ordered by ID
func (r *TrackedUserRepository) GetAll(ctx context.Context) ([]*models.TrackedUser, error) {
	query := `
		SELECT ` + trackedUserColumns + `
		FROM tracked_users
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracked users: %w", err)
	}
	defer rows.Close()

	var users []*models.TrackedUser
	for rows.Next() {
		var user models.TrackedUser
		if err := rows.Scan(
			&user.ID,
			&user.GithubUsername,
			&user.GithubToken,
			&user.DiscordID,
			&user.PrimaryRepo,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tracked user: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracked users: %w", err)
	}

	return users, nil
}

// Create inserts a new tracked user
func (r *TrackedUserRepository) Create(ctx context.Context, user *models.TrackedUser) error {
	query := `
		INSERT INTO tracked_users (github_username, github_token, discord_id, primary_repo)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		user.GithubUsername,
		user.GithubToken,
		user.DiscordID,
		user.PrimaryRepo,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create tracked user %s: %w", user.GithubUsername, err)
	}

	return nil
}
