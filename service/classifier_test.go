package service

import (
	"testing"
	"time"

	"gitpulse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyEngagement_ActiveAboveThreshold(t *testing.T) {
	status, messageType := ClassifyEngagement(11, 15)

	assert.Equal(t, models.EngagementActive, status)
	require.NotNil(t, messageType)
	assert.Equal(t, models.MessageTypeActiveEncouragement, *messageType)
}

func TestClassifyEngagement_ThresholdIsExclusive(t *testing.T) {
	// Exactly 10 commits in 7 days is not active
	status, messageType := ClassifyEngagement(10, 12)

	assert.Equal(t, models.EngagementNormal, status)
	assert.Nil(t, messageType)
}

func TestClassifyEngagement_Stagnant(t *testing.T) {
	status, messageType := ClassifyEngagement(0, 0)

	assert.Equal(t, models.EngagementStagnant, status)
	require.NotNil(t, messageType)
	assert.Equal(t, models.MessageTypeStagnantReminder, *messageType)
}

func TestClassifyEngagement_SingleCommitInWindowIsNormal(t *testing.T) {
	status, messageType := ClassifyEngagement(0, 1)

	assert.Equal(t, models.EngagementNormal, status)
	assert.Nil(t, messageType)
}

func TestClassifyEngagement_ActiveRuleWinsOverStagnant(t *testing.T) {
	// Rules evaluate in order; commits14d is never checked once active matches
	status, _ := ClassifyEngagement(11, 0)

	assert.Equal(t, models.EngagementActive, status)
}

func TestSumCommits(t *testing.T) {
	day := func(offset, commits int) *models.DailyStat {
		return &models.DailyStat{
			StatDate:    time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset),
			CommitCount: commits,
		}
	}

	stats := []*models.DailyStat{day(0, 5), day(-3, 2), day(-8, 7)}

	cutoff7 := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 7, SumCommits(stats, cutoff7))

	cutoff14 := time.Date(2025, 5, 28, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 14, SumCommits(stats, cutoff14))
}

func TestLatestCommitDate(t *testing.T) {
	t.Run("picks most recent day with commits", func(t *testing.T) {
		stats := []*models.DailyStat{
			{StatDate: time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), CommitCount: 2},
			{StatDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), CommitCount: 0},
			{StatDate: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), CommitCount: 1},
		}

		latest := LatestCommitDate(stats)
		require.NotNil(t, latest)
		assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), *latest)
	})

	t.Run("nil when no commits in window", func(t *testing.T) {
		stats := []*models.DailyStat{
			{StatDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), CommitCount: 0},
		}

		assert.Nil(t, LatestCommitDate(stats))
	})

	t.Run("nil for empty window", func(t *testing.T) {
		assert.Nil(t, LatestCommitDate(nil))
	})
}
