package models

import (
	"time"
)

// TrackedUser represents a user whose GitHub activity is synced
type TrackedUser struct {
	ID             int64     `db:"id"`
	GithubUsername string    `db:"github_username"`
	GithubToken    string    `db:"github_token"`
	DiscordID      *string   `db:"discord_id"`
	PrimaryRepo    *string   `db:"primary_repo"` // "owner/name", used for day summaries
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// HasCredentials reports whether the user can be synced this run.
// Users missing either the handle or the token are excluded from selection.
func (u *TrackedUser) HasCredentials() bool {
	return u.GithubUsername != "" && u.GithubToken != ""
}
