package models

import (
	"time"
)

// RunSummary holds the aggregate counters for one sync invocation
type RunSummary struct {
	TotalUsers      int       `json:"totalUsers"`
	ProcessedUsers  int       `json:"processedUsers"`
	SkippedUsers    int       `json:"skippedUsers"`
	SuccessCount    int       `json:"successCount"`
	FailureCount    int       `json:"failureCount"`
	TotalDaysSynced int       `json:"totalDaysSynced"`
	Timestamp       time.Time `json:"timestamp"`
}

// UserSyncResult is the per-user outcome entry in a run report
type UserSyncResult struct {
	UserID     int64  `json:"userId"`
	Username   string `json:"username"`
	Success    bool   `json:"success"`
	DaysSynced int    `json:"daysSynced"`
	Error      string `json:"error,omitempty"`
	Engagement string `json:"engagementStatus,omitempty"`
}

// RunReport is the JSON document returned to the scheduler that
// triggered the run. It is the sole surface for per-user failures.
type RunReport struct {
	Summary RunSummary       `json:"summary"`
	Results []UserSyncResult `json:"results"`
}
