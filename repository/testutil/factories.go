package testutil

import (
	"time"

	"gitpulse/models"

	"github.com/google/uuid"
)

// CreateTestUser creates a tracked user with valid credentials
func CreateTestUser(username string) *models.TrackedUser {
	token := "ghp_test_" + username
	repo := "acme/" + username + "-project"
	return &models.TrackedUser{
		GithubUsername: username,
		GithubToken:    token,
		PrimaryRepo:    &repo,
	}
}

// CreateTestUserWithoutToken creates a tracked user missing a credential
func CreateTestUserWithoutToken(username string) *models.TrackedUser {
	return &models.TrackedUser{
		GithubUsername: username,
	}
}

// CreateTestDailyStat creates a daily stat with default counters
func CreateTestDailyStat(userID int64, date time.Time) *models.DailyStat {
	return &models.DailyStat{
		UserID:           userID,
		StatDate:         time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		CommitCount:      3,
		PushEventCount:   2,
		IssueCount:       1,
		PullRequestCount: 1,
	}
}

// CreateTestCheckpoint creates a sync checkpoint for the given sync time
func CreateTestCheckpoint(userID int64, syncedAt time.Time) *models.SyncCheckpoint {
	return &models.SyncCheckpoint{
		UserID:       userID,
		LastRunID:    uuid.New(),
		LastSyncedAt: syncedAt,
	}
}

// CreateTestSyncRun creates a completed sync run record
func CreateTestSyncRun(startedAt time.Time) *models.SyncRun {
	return &models.SyncRun{
		ID:              uuid.New(),
		StartedAt:       startedAt,
		FinishedAt:      startedAt.Add(5 * time.Second),
		TotalUsers:      5,
		ProcessedUsers:  3,
		SuccessCount:    2,
		FailureCount:    1,
		TotalDaysSynced: 4,
		ExecutionSummary: map[string]interface{}{
			"skippedNoCredentials": 1,
		},
	}
}
