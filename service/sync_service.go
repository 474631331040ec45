package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gitpulse/config"
	"gitpulse/events"
	"gitpulse/github"
	"gitpulse/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// syncService implements the SyncService interface. It processes the
// selected users strictly sequentially; the invocation runs under a
// short wall-clock ceiling and the per-run cap is sized against that,
// so there is no intra-run parallelism to account for.
type syncService struct {
	cfg         *config.Config
	users       TrackedUserRepository
	stats       DailyStatRepository
	engagement  EngagementStatusRepository
	checkpoints SyncCheckpointRepository
	runs        SyncRunRepository
	source      EventSource
	summarizer  Summarizer // nil disables day summaries
	bus         *events.Bus
	now         func() time.Time
}

// NewSyncService creates the batch sync orchestrator. summarizer may be
// nil when no LLM endpoint is configured.
func NewSyncService(
	cfg *config.Config,
	users TrackedUserRepository,
	stats DailyStatRepository,
	engagement EngagementStatusRepository,
	checkpoints SyncCheckpointRepository,
	runs SyncRunRepository,
	source EventSource,
	summarizer Summarizer,
	bus *events.Bus,
) SyncService {
	return &syncService{
		cfg:         cfg,
		users:       users,
		stats:       stats,
		engagement:  engagement,
		checkpoints: checkpoints,
		runs:        runs,
		source:      source,
		summarizer:  summarizer,
		bus:         bus,
		now:         time.Now,
	}
}

// Run executes one sync invocation: select a bounded subset of users,
// drive the per-user pipeline sequentially with failure isolation, and
// assemble the run report. Only selection-phase failures abort the run.
func (s *syncService) Run(ctx context.Context) (*models.RunReport, error) {
	runID := uuid.New()
	startedAt := s.now()

	logger := log.WithField("runId", runID)
	logger.Info("Starting activity sync run")

	candidates, skippedNoCredentials, err := s.findCandidates(ctx)
	if err != nil {
		return nil, err
	}

	selected, err := s.selectUsers(ctx, candidates, startedAt)
	if err != nil {
		return nil, err
	}

	logger.WithFields(log.Fields{
		"candidates": len(candidates),
		"selected":   len(selected),
	}).Info("Selected users for this run")

	var hookFailures []string
	results := make([]models.UserSyncResult, 0, len(selected))
	successCount := 0
	totalDays := 0

	for _, user := range selected {
		result := s.syncUser(ctx, runID, user, &hookFailures)
		if result.Success {
			successCount++
		}
		// DaysSynced is set once the day rows are committed, so it
		// counts toward the total even when the user fails later in
		// the pipeline. The report total matches what the store holds.
		totalDays += result.DaysSynced
		results = append(results, result)
	}

	finishedAt := s.now()
	report := &models.RunReport{
		Summary: models.RunSummary{
			TotalUsers:      len(candidates),
			ProcessedUsers:  len(selected),
			SkippedUsers:    len(candidates) - len(selected),
			SuccessCount:    successCount,
			FailureCount:    len(selected) - successCount,
			TotalDaysSynced: totalDays,
			Timestamp:       finishedAt,
		},
		Results: results,
	}

	s.persistRun(ctx, runID, startedAt, finishedAt, report, skippedNoCredentials, hookFailures)

	if s.bus != nil {
		s.bus.Emit(ctx, events.SyncRunCompletedEvent{
			RunID:        runID.String(),
			SuccessCount: successCount,
			FailureCount: report.Summary.FailureCount,
			DaysSynced:   totalDays,
		})
	}

	logger.WithFields(log.Fields{
		"succeeded":  successCount,
		"failed":     report.Summary.FailureCount,
		"daysSynced": totalDays,
	}).Info("Activity sync run finished")

	return report, nil
}

// LatestRun returns the most recent persisted run record
func (s *syncService) LatestRun(ctx context.Context) (*models.SyncRun, error) {
	return s.runs.GetLatest(ctx)
}

// findCandidates returns all users eligible for syncing this run. Users
// without a handle or token are excluded outright, not failed.
func (s *syncService) findCandidates(ctx context.Context) ([]*models.TrackedUser, int, error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load tracked users: %w", err)
	}

	candidates := make([]*models.TrackedUser, 0, len(users))
	for _, user := range users {
		if user.HasCredentials() {
			candidates = append(candidates, user)
		}
	}

	return candidates, len(users) - len(candidates), nil
}

// selectUsers partitions candidates by checkpoint freshness, prefers
// the unprocessed ones, and truncates to the per-run cap. When every
// candidate is fresh the full set is used, so repeated invocations keep
// cycling instead of going idle.
func (s *syncService) selectUsers(ctx context.Context, candidates []*models.TrackedUser, now time.Time) ([]*models.TrackedUser, error) {
	cutoff := now.Add(-s.cfg.FreshnessWindow)
	fresh, err := s.checkpoints.GetFreshUserIDs(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to load sync checkpoints: %w", err)
	}

	unprocessed := make([]*models.TrackedUser, 0, len(candidates))
	for _, user := range candidates {
		if !fresh[user.ID] {
			unprocessed = append(unprocessed, user)
		}
	}

	selected := unprocessed
	if len(selected) == 0 {
		selected = candidates
	}
	if len(selected) > s.cfg.MaxUsersPerRun {
		selected = selected[:s.cfg.MaxUsersPerRun]
	}

	return selected, nil
}

// syncUser runs the full pipeline for one user. Every failure is
// converted into the result entry; nothing propagates to the caller, so
// one user can never abort the batch.
func (s *syncService) syncUser(ctx context.Context, runID uuid.UUID, user *models.TrackedUser, hookFailures *[]string) models.UserSyncResult {
	result := models.UserSyncResult{
		UserID:   user.ID,
		Username: user.GithubUsername,
	}
	logger := log.WithFields(log.Fields{
		"runId":  runID,
		"userId": user.ID,
		"user":   user.GithubUsername,
	})

	rawEvents, err := s.fetchEvents(ctx, user)
	if err != nil {
		logger.WithError(err).Warn("Event fetch failed")
		result.Error = err.Error()
		return result
	}

	aggregated := AggregateDaily(rawEvents, s.cfg.Location)
	stats := make([]*models.DailyStat, 0, len(aggregated))
	for _, stat := range aggregated {
		stat.UserID = user.ID
		stats = append(stats, stat)
	}

	if err := s.stats.UpsertMany(ctx, stats); err != nil {
		logger.WithError(err).Error("Daily stat upsert failed")
		result.Error = err.Error()
		return result
	}
	result.DaysSynced = len(stats)

	status, err := s.classify(ctx, user.ID)
	if err != nil {
		logger.WithError(err).Error("Engagement classification failed")
		result.Error = err.Error()
		return result
	}
	result.Engagement = string(status.Status)

	checkpoint := &models.SyncCheckpoint{
		UserID:       user.ID,
		LastRunID:    runID,
		LastSyncedAt: s.now(),
	}
	if err := s.checkpoints.Upsert(ctx, checkpoint); err != nil {
		logger.WithError(err).Error("Checkpoint write failed")
		result.Error = err.Error()
		return result
	}
	result.Success = true

	logger.WithFields(log.Fields{
		"daysSynced": result.DaysSynced,
		"engagement": status.Status,
	}).Info("User synced")

	// Best-effort hooks run only after the user's stats, classification
	// and checkpoint are all persisted. Their failures are recorded in
	// the run record but never in the user's result.
	s.enrichDays(ctx, user, stats, hookFailures)

	if s.bus != nil {
		s.bus.Emit(ctx, events.EngagementClassifiedEvent{
			UserID:                 user.ID,
			GithubUsername:         user.GithubUsername,
			DiscordID:              user.DiscordID,
			Status:                 status.Status,
			RecommendedMessageType: status.RecommendedMessageType,
			CommitsLast7Days:       status.CommitsLast7Days,
			CommitsLast14Days:      status.CommitsLast14Days,
		})
	}

	return result
}

// fetchEvents pulls up to the configured number of event pages for one
// user. Pagination stops early on a short page.
func (s *syncService) fetchEvents(ctx context.Context, user *models.TrackedUser) ([]github.Event, error) {
	var all []github.Event
	for page := 1; page <= s.cfg.MaxPagesPerUser; page++ {
		pageEvents, err := s.source.ListUserEvents(ctx, user.GithubUsername, user.GithubToken, page)
		if err != nil {
			switch {
			case errors.Is(err, github.ErrUserNotFound):
				return nil, fmt.Errorf("github user %s not found: %w", user.GithubUsername, err)
			case errors.Is(err, github.ErrBadCredentials):
				return nil, fmt.Errorf("credentials rejected for %s, token needs rotation: %w", user.GithubUsername, err)
			default:
				return nil, fmt.Errorf("failed to fetch events for %s: %w", user.GithubUsername, err)
			}
		}
		all = append(all, pageEvents...)
		if len(pageEvents) < s.cfg.EventsPerPage {
			break
		}
	}
	return all, nil
}

// classify re-reads the trailing windows from the store and derives the
// engagement status. Reading back instead of reusing the in-memory
// aggregates keeps the classification consistent with what earlier runs
// already persisted for days outside this fetch.
func (s *syncService) classify(ctx context.Context, userID int64) (*models.EngagementStatus, error) {
	today := DayStart(s.now().In(s.cfg.Location))
	from14 := WindowStart(today, s.cfg.ClassifyWindow14)
	from7 := WindowStart(today, s.cfg.ClassifyWindow7)

	window, err := s.stats.GetWindow(ctx, userID, from14, today)
	if err != nil {
		return nil, err
	}

	commits7 := SumCommits(window, from7)
	commits14 := SumCommits(window, from14)
	level, messageType := ClassifyEngagement(commits7, commits14)

	status := &models.EngagementStatus{
		UserID:                 userID,
		Status:                 level,
		CommitsLast7Days:       commits7,
		CommitsLast14Days:      commits14,
		LastCommitDate:         LatestCommitDate(window),
		RecommendedMessageType: messageType,
	}

	if err := s.engagement.Upsert(ctx, status); err != nil {
		return nil, err
	}

	return status, nil
}

// maxCommitDetailFetches bounds the per-day commit-detail lookups the
// enrichment hook may spend.
const maxCommitDetailFetches = 3

// enrichDays generates a narrative summary for the user's most recent
// active day. Strictly best-effort: any failure is appended to the run
// record's hook-failure list and the day's enrichment stays empty.
func (s *syncService) enrichDays(ctx context.Context, user *models.TrackedUser, stats []*models.DailyStat, hookFailures *[]string) {
	if s.summarizer == nil || user.PrimaryRepo == nil {
		return
	}

	var latest *models.DailyStat
	for _, stat := range stats {
		if stat.CommitCount == 0 {
			continue
		}
		if latest == nil || stat.StatDate.After(latest.StatDate) {
			latest = stat
		}
	}
	if latest == nil {
		return
	}

	owner, repo, ok := strings.Cut(*user.PrimaryRepo, "/")
	if !ok {
		s.recordHookFailure(hookFailures, user, fmt.Errorf("malformed primary repo %q", *user.PrimaryRepo))
		return
	}

	dayStart := latest.StatDate
	dayEnd := dayStart.AddDate(0, 0, 1)
	commits, err := s.source.ListRepoCommits(ctx, owner, repo, user.GithubToken, dayStart, dayEnd)
	if err != nil {
		s.recordHookFailure(hookFailures, user, err)
		return
	}
	if len(commits) == 0 {
		return
	}

	changedFiles := s.collectChangedFiles(ctx, owner, repo, user.GithubToken, commits)

	summary, err := s.summarizer.SummarizeDay(ctx, *user.PrimaryRepo, dayStart, commits)
	if err != nil {
		s.recordHookFailure(hookFailures, user, err)
		return
	}
	if len(summary.ChangedFiles) == 0 {
		summary.ChangedFiles = changedFiles
	}

	if err := s.stats.UpdateEnrichment(ctx, user.ID, dayStart, summary.Summary, summary.Highlights, summary.ChangedFiles); err != nil {
		s.recordHookFailure(hookFailures, user, err)
	}
}

// collectChangedFiles gathers the changed-file lists of the day's first
// few commits. Failures here degrade the detail, nothing more.
func (s *syncService) collectChangedFiles(ctx context.Context, owner, repo, token string, commits []github.RepoCommit) []string {
	seen := make(map[string]bool)
	var files []string

	limit := len(commits)
	if limit > maxCommitDetailFetches {
		limit = maxCommitDetailFetches
	}
	for _, commit := range commits[:limit] {
		detail, err := s.source.GetCommit(ctx, owner, repo, token, commit.SHA)
		if err != nil {
			log.WithError(err).WithField("sha", commit.SHA).Debug("Commit detail fetch failed")
			continue
		}
		for _, file := range detail.Files {
			if !seen[file] {
				seen[file] = true
				files = append(files, file)
			}
		}
	}

	return files
}

func (s *syncService) recordHookFailure(hookFailures *[]string, user *models.TrackedUser, err error) {
	log.WithError(err).WithField("user", user.GithubUsername).Warn("Enrichment hook failed")
	*hookFailures = append(*hookFailures, fmt.Sprintf("%s: %v", user.GithubUsername, err))
}

// persistRun stores the run record. A write failure here is logged but
// does not fail the run: the report has already been assembled and the
// per-user checkpoints carry the resume state.
func (s *syncService) persistRun(ctx context.Context, runID uuid.UUID, startedAt, finishedAt time.Time, report *models.RunReport, skippedNoCredentials int, hookFailures []string) {
	perUser := make([]map[string]interface{}, 0, len(report.Results))
	for _, result := range report.Results {
		entry := map[string]interface{}{
			"userId":     result.UserID,
			"username":   result.Username,
			"success":    result.Success,
			"daysSynced": result.DaysSynced,
		}
		if result.Error != "" {
			entry["error"] = result.Error
		}
		if result.Engagement != "" {
			entry["engagement"] = result.Engagement
		}
		perUser = append(perUser, entry)
	}

	run := &models.SyncRun{
		ID:              runID,
		StartedAt:       startedAt,
		FinishedAt:      finishedAt,
		TotalUsers:      report.Summary.TotalUsers,
		ProcessedUsers:  report.Summary.ProcessedUsers,
		SuccessCount:    report.Summary.SuccessCount,
		FailureCount:    report.Summary.FailureCount,
		TotalDaysSynced: report.Summary.TotalDaysSynced,
		ExecutionSummary: map[string]interface{}{
			"results":              perUser,
			"skippedNoCredentials": skippedNoCredentials,
			"hookFailures":         hookFailures,
		},
	}

	if err := s.runs.Create(ctx, run); err != nil {
		log.WithError(err).WithField("runId", runID).Error("Failed to persist sync run record")
	}
}
