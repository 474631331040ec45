package models

import (
	"time"
)

// EngagementLevel classifies a user's recent commit activity
type EngagementLevel string

const (
	EngagementActive   EngagementLevel = "active"
	EngagementStagnant EngagementLevel = "stagnant"
	EngagementNormal   EngagementLevel = "normal"
)

// Recommended outreach message tags attached to a classification
const (
	MessageTypeActiveEncouragement = "active_encouragement"
	MessageTypeStagnantReminder    = "stagnant_reminder"
)

// EngagementStatus represents the derived engagement classification for
// one user. One row per user, overwritten on every successful sync.
type EngagementStatus struct {
	UserID                 int64           `db:"user_id"`
	Status                 EngagementLevel `db:"status"`
	CommitsLast7Days       int             `db:"commits_last_7_days"`
	CommitsLast14Days      int             `db:"commits_last_14_days"`
	LastCommitDate         *time.Time      `db:"last_commit_date"`
	RecommendedMessageType *string         `db:"recommended_message_type"`
	UpdatedAt              time.Time       `db:"updated_at"`
}
