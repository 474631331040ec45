package service

import (
	"testing"
	"time"

	"gitpulse/github"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func pushEvent(createdAt time.Time, size int, commits ...github.Commit) github.Event {
	return github.Event{
		Type:      "PushEvent",
		CreatedAt: createdAt,
		Payload:   github.Payload{Size: size, Commits: commits},
	}
}

func TestAggregateDaily_PushCommitFloor(t *testing.T) {
	loc := time.UTC
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// No size hint, no commit list: the push still counts as one commit
	stats := AggregateDaily([]github.Event{pushEvent(ts, 0)}, loc)

	require.Len(t, stats, 1)
	stat := stats["2025-06-01"]
	require.NotNil(t, stat)
	assert.Equal(t, 1, stat.CommitCount)
	assert.Equal(t, 1, stat.PushEventCount)
}

func TestAggregateDaily_SizeHintWinsOverCommitList(t *testing.T) {
	loc := time.UTC
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	event := pushEvent(ts, 3, github.Commit{SHA: "abc", Message: "only one listed"})
	stats := AggregateDaily([]github.Event{event}, loc)

	require.Len(t, stats, 1)
	assert.Equal(t, 3, stats["2025-06-01"].CommitCount)
}

func TestAggregateDaily_CommitListUsedWithoutHint(t *testing.T) {
	loc := time.UTC
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	event := pushEvent(ts, 0,
		github.Commit{SHA: "a", Message: "one"},
		github.Commit{SHA: "b", Message: "two"},
	)
	stats := AggregateDaily([]github.Event{event}, loc)

	require.Len(t, stats, 1)
	assert.Equal(t, 2, stats["2025-06-01"].CommitCount)
}

func TestAggregateDaily_TimezoneBucketing(t *testing.T) {
	jst := mustLocation(t, "Asia/Tokyo")

	// 23:30 UTC is 08:30 the next day in JST
	ts := time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC)
	stats := AggregateDaily([]github.Event{pushEvent(ts, 1)}, jst)

	require.Len(t, stats, 1)
	assert.Contains(t, stats, "2025-06-02")
	assert.NotContains(t, stats, "2025-06-01")
}

func TestAggregateDaily_MergesSameLocalDay(t *testing.T) {
	jst := mustLocation(t, "Asia/Tokyo")

	// Both events fall on 2025-06-02 in JST
	input := []github.Event{
		pushEvent(time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC), 2),
		{
			Type:      "IssuesEvent",
			CreatedAt: time.Date(2025, 6, 2, 1, 0, 0, 0, time.UTC),
			Payload:   github.Payload{Action: "opened"},
		},
	}

	stats := AggregateDaily(input, jst)

	require.Len(t, stats, 1)
	stat := stats["2025-06-02"]
	require.NotNil(t, stat)
	assert.Equal(t, 2, stat.CommitCount)
	assert.Equal(t, 1, stat.PushEventCount)
	assert.Equal(t, 1, stat.IssueCount)
	assert.Equal(t, 0, stat.PullRequestCount)
}

func TestAggregateDaily_CounterFamilies(t *testing.T) {
	loc := time.UTC
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	input := []github.Event{
		{Type: "IssuesEvent", CreatedAt: ts},
		{Type: "IssueCommentEvent", CreatedAt: ts},
		{Type: "PullRequestEvent", CreatedAt: ts},
		{Type: "PullRequestReviewEvent", CreatedAt: ts},
		{Type: "PullRequestReviewCommentEvent", CreatedAt: ts},
	}

	stats := AggregateDaily(input, loc)

	require.Len(t, stats, 1)
	stat := stats["2025-06-01"]
	assert.Equal(t, 0, stat.CommitCount)
	assert.Equal(t, 0, stat.PushEventCount)
	assert.Equal(t, 2, stat.IssueCount)
	assert.Equal(t, 3, stat.PullRequestCount)
}

func TestAggregateDaily_IgnoresUnknownEventKinds(t *testing.T) {
	loc := time.UTC
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	input := []github.Event{
		{Type: "WatchEvent", CreatedAt: ts},
		{Type: "ForkEvent", CreatedAt: ts},
		{Type: "", CreatedAt: ts},
	}

	stats := AggregateDaily(input, loc)
	assert.Empty(t, stats)
}

func TestAggregateDaily_Deterministic(t *testing.T) {
	loc := time.UTC
	input := []github.Event{
		pushEvent(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), 2),
		{Type: "IssuesEvent", CreatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)},
		pushEvent(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), 0),
	}
	reversed := []github.Event{input[2], input[1], input[0]}

	first := AggregateDaily(input, loc)
	second := AggregateDaily(reversed, loc)

	require.Equal(t, len(first), len(second))
	for key, stat := range first {
		other := second[key]
		require.NotNil(t, other, "missing day %s", key)
		assert.Equal(t, stat.CommitCount, other.CommitCount)
		assert.Equal(t, stat.PushEventCount, other.PushEventCount)
		assert.Equal(t, stat.IssueCount, other.IssueCount)
		assert.Equal(t, stat.PullRequestCount, other.PullRequestCount)
	}
}
