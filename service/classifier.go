package service

import (
	"time"

	"gitpulse/models"
)

// activeCommitThreshold is the 7-day commit count a user must exceed to
// be classified as active.
const activeCommitThreshold = 10

// ClassifyEngagement derives a user's engagement level from the two
// trailing commit counters. First matching rule wins: more than ten
// commits in 7 days is active, zero commits in 14 days is stagnant,
// anything else is normal. The returned tag drives outreach messaging
// and is nil for normal users.
func ClassifyEngagement(commits7d, commits14d int) (models.EngagementLevel, *string) {
	switch {
	case commits7d > activeCommitThreshold:
		tag := models.MessageTypeActiveEncouragement
		return models.EngagementActive, &tag
	case commits14d == 0:
		tag := models.MessageTypeStagnantReminder
		return models.EngagementStagnant, &tag
	default:
		return models.EngagementNormal, nil
	}
}

// SumCommits totals the commit counts of stats whose date is on or
// after the cutoff date. Dates are compared as calendar dates, not
// instants: stored stat dates come back at UTC midnight while cutoffs
// are midnight in the sync timezone.
func SumCommits(stats []*models.DailyStat, cutoff time.Time) int {
	cutoffKey := cutoff.Format("2006-01-02")
	total := 0
	for _, stat := range stats {
		if stat.DateKey() >= cutoffKey {
			total += stat.CommitCount
		}
	}
	return total
}

// LatestCommitDate returns the most recent stat date with at least one
// commit, or nil when the window holds no commits at all.
func LatestCommitDate(stats []*models.DailyStat) *time.Time {
	var latest *time.Time
	for _, stat := range stats {
		if stat.CommitCount == 0 {
			continue
		}
		if latest == nil || stat.StatDate.After(*latest) {
			d := stat.StatDate
			latest = &d
		}
	}
	return latest
}
