package repository

import (
	"context"
	"testing"
	"time"

	"gitpulse/models"
	"gitpulse/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyStatRepository_UpsertIdempotent(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewTrackedUserRepository(testDB.DB)
	statRepo := NewDailyStatRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser("alice")
	require.NoError(t, userRepo.Create(ctx, user))

	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	stat := &models.DailyStat{
		UserID:           user.ID,
		StatDate:         date,
		CommitCount:      2,
		PushEventCount:   1,
		IssueCount:       1,
		PullRequestCount: 0,
	}

	// Writing the same aggregate twice converges, it does not accumulate
	require.NoError(t, statRepo.Upsert(ctx, stat))
	require.NoError(t, statRepo.Upsert(ctx, stat))

	window, err := statRepo.GetWindow(ctx, user.ID, date, date)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, 2, window[0].CommitCount)
	assert.Equal(t, 1, window[0].PushEventCount)
	assert.Equal(t, 1, window[0].IssueCount)
}

func TestDailyStatRepository_UpsertReplacesCounters(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewTrackedUserRepository(testDB.DB)
	statRepo := NewDailyStatRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser("alice")
	require.NoError(t, userRepo.Create(ctx, user))

	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	first := testutil.CreateTestDailyStat(user.ID, date)
	require.NoError(t, statRepo.Upsert(ctx, first))

	second := testutil.CreateTestDailyStat(user.ID, date)
	second.CommitCount = 9
	second.IssueCount = 0
	require.NoError(t, statRepo.Upsert(ctx, second))

	window, err := statRepo.GetWindow(ctx, user.ID, date, date)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, 9, window[0].CommitCount)
	assert.Equal(t, 0, window[0].IssueCount)
}

func TestDailyStatRepository_UpsertMany(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewTrackedUserRepository(testDB.DB)
	statRepo := NewDailyStatRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser("alice")
	require.NoError(t, userRepo.Create(ctx, user))

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	stats := []*models.DailyStat{
		testutil.CreateTestDailyStat(user.ID, base),
		testutil.CreateTestDailyStat(user.ID, base.AddDate(0, 0, 1)),
		testutil.CreateTestDailyStat(user.ID, base.AddDate(0, 0, 2)),
	}
	require.NoError(t, statRepo.UpsertMany(ctx, stats))

	window, err := statRepo.GetWindow(ctx, user.ID, base, base.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Len(t, window, 3)

	// Most recent first
	assert.True(t, window[0].StatDate.After(window[1].StatDate))
}

func TestDailyStatRepository_GetWindowBounds(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewTrackedUserRepository(testDB.DB)
	statRepo := NewDailyStatRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser("alice")
	require.NoError(t, userRepo.Create(ctx, user))

	inside := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	outside := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	require.NoError(t, statRepo.Upsert(ctx, testutil.CreateTestDailyStat(user.ID, inside)))
	require.NoError(t, statRepo.Upsert(ctx, testutil.CreateTestDailyStat(user.ID, outside)))

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	window, err := statRepo.GetWindow(ctx, user.ID, from, to)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, inside.Format("2006-01-02"), window[0].DateKey())
}

func TestDailyStatRepository_UpdateEnrichment(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewTrackedUserRepository(testDB.DB)
	statRepo := NewDailyStatRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser("alice")
	require.NoError(t, userRepo.Create(ctx, user))

	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("fails when no counter row exists", func(t *testing.T) {
		err := statRepo.UpdateEnrichment(ctx, user.ID, date, "summary", nil, nil)
		require.Error(t, err)
	})

	t.Run("fills enrichment fields", func(t *testing.T) {
		require.NoError(t, statRepo.Upsert(ctx, testutil.CreateTestDailyStat(user.ID, date)))

		err := statRepo.UpdateEnrichment(ctx, user.ID, date,
			"Worked on the parser.",
			[]string{"parser rewrite"},
			[]string{"parser.go", "parser_test.go"})
		require.NoError(t, err)

		window, err := statRepo.GetWindow(ctx, user.ID, date, date)
		require.NoError(t, err)
		require.Len(t, window, 1)
		require.NotNil(t, window[0].Summary)
		assert.Equal(t, "Worked on the parser.", *window[0].Summary)
		assert.Equal(t, []string{"parser rewrite"}, window[0].Highlights)
		assert.Equal(t, []string{"parser.go", "parser_test.go"}, window[0].ChangedFiles)
	})

	t.Run("counter upsert preserves enrichment", func(t *testing.T) {
		refreshed := testutil.CreateTestDailyStat(user.ID, date)
		refreshed.CommitCount = 5
		require.NoError(t, statRepo.Upsert(ctx, refreshed))

		window, err := statRepo.GetWindow(ctx, user.ID, date, date)
		require.NoError(t, err)
		require.Len(t, window, 1)
		assert.Equal(t, 5, window[0].CommitCount)
		require.NotNil(t, window[0].Summary)
		assert.Equal(t, "Worked on the parser.", *window[0].Summary)
	})
}
