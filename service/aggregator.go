package service

import (
	"time"

	"gitpulse/github"
	"gitpulse/models"
)

// Event kinds that feed each counter family. Everything else in the
// activity stream is ignored.
const (
	eventTypePush            = "PushEvent"
	eventTypeIssues          = "IssuesEvent"
	eventTypeIssueComment    = "IssueCommentEvent"
	eventTypePullRequest     = "PullRequestEvent"
	eventTypePRReview        = "PullRequestReviewEvent"
	eventTypePRReviewComment = "PullRequestReviewCommentEvent"
)

// AggregateDaily reduces a list of raw events into per-calendar-day
// counters. Dates are bucketed in loc, not UTC, so an event late in the
// UTC day can land on the next local date. The function is pure: the
// same event list always produces the same map, regardless of order.
func AggregateDaily(events []github.Event, loc *time.Location) map[string]*models.DailyStat {
	stats := make(map[string]*models.DailyStat)

	for _, event := range events {
		localTime := event.CreatedAt.In(loc)
		key := localTime.Format("2006-01-02")

		stat, ok := stats[key]
		if !ok {
			stat = &models.DailyStat{
				StatDate: time.Date(localTime.Year(), localTime.Month(), localTime.Day(), 0, 0, 0, 0, loc),
			}
			stats[key] = stat
		}

		switch event.Type {
		case eventTypePush:
			stat.PushEventCount++
			stat.CommitCount += commitsInPush(event.Payload)
		case eventTypeIssues, eventTypeIssueComment:
			stat.IssueCount++
		case eventTypePullRequest, eventTypePRReview, eventTypePRReviewComment:
			stat.PullRequestCount++
		}
	}

	// Drop days that only saw ignored event kinds
	for key, stat := range stats {
		if stat.CommitCount == 0 && stat.PushEventCount == 0 && stat.IssueCount == 0 && stat.PullRequestCount == 0 {
			delete(stats, key)
		}
	}

	return stats
}

// commitsInPush derives the commit count for one push event. The size
// hint wins over the embedded commit list because GitHub truncates the
// list at 20 commits. A push with neither still counts as one commit:
// the payload can arrive truncated, and undercounting is worse here
// than occasionally counting a tag-only push.
func commitsInPush(payload github.Payload) int {
	if payload.Size > 0 {
		return payload.Size
	}
	if len(payload.Commits) > 0 {
		return len(payload.Commits)
	}
	return 1
}
