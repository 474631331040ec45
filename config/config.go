package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// HTTP server configuration
	HTTPAddr string

	// CronSecret is the pre-shared bearer token the external scheduler
	// must present to trigger a sync run
	CronSecret string

	// GitHub configuration
	GithubBaseURL   string
	EventsPerPage   int // page size requested from the events API
	MaxPagesPerUser int // pages fetched per user per run

	// Sync configuration
	MaxUsersPerRun   int            // per-run user cap (the resource budget)
	SyncTimezone     string         // IANA name of the stat bucketing timezone
	Location         *time.Location // resolved from SyncTimezone
	FreshnessWindow  time.Duration  // checkpoint age below which a user counts as processed
	ClassifyWindow7  int            // trailing window in days for the "active" rule
	ClassifyWindow14 int            // trailing window in days for the "stagnant" rule

	// LLM summary configuration; summaries are disabled when the key is empty
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string

	// Discord outreach configuration; outreach is disabled when the token is empty
	DiscordToken     string
	DiscordChannelID string

	// Environment
	Environment string // "development" or "production"
}

// Load reads configuration from environment variables. It is called once
// at process start and the result is passed down explicitly.
func Load() (*Config, error) {
	config := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		HTTPAddr:    os.Getenv("HTTP_ADDR"),
		CronSecret:  os.Getenv("CRON_SECRET"),

		GithubBaseURL:   os.Getenv("GITHUB_API_BASE_URL"),
		EventsPerPage:   30,
		MaxPagesPerUser: 1,

		MaxUsersPerRun:   10,
		SyncTimezone:     os.Getenv("SYNC_TIMEZONE"),
		FreshnessWindow:  24 * time.Hour,
		ClassifyWindow7:  7,
		ClassifyWindow14: 14,

		LLMBaseURL: os.Getenv("LLM_BASE_URL"),
		LLMAPIKey:  os.Getenv("LLM_API_KEY"),
		LLMModel:   os.Getenv("LLM_MODEL"),

		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		DiscordChannelID: os.Getenv("DISCORD_CHANNEL_ID"),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Defaults
	if config.HTTPAddr == "" {
		config.HTTPAddr = ":8080"
	}
	if config.GithubBaseURL == "" {
		config.GithubBaseURL = "https://api.github.com"
	}
	if config.SyncTimezone == "" {
		config.SyncTimezone = "Asia/Tokyo"
	}
	if config.LLMModel == "" {
		config.LLMModel = "gpt-4o-mini"
	}
	if config.Environment == "" {
		config.Environment = "development"
	}

	// Override defaults if environment variables are set
	if limit := os.Getenv("MAX_USERS_PER_RUN"); limit != "" {
		if parsed, err := strconv.Atoi(limit); err == nil && parsed > 0 {
			config.MaxUsersPerRun = parsed
		}
	}
	if pages := os.Getenv("MAX_PAGES_PER_USER"); pages != "" {
		if parsed, err := strconv.Atoi(pages); err == nil && parsed > 0 {
			config.MaxPagesPerUser = parsed
		}
	}
	if hours := os.Getenv("CHECKPOINT_FRESHNESS_HOURS"); hours != "" {
		if parsed, err := strconv.Atoi(hours); err == nil && parsed > 0 {
			config.FreshnessWindow = time.Duration(parsed) * time.Hour
		}
	}

	loc, err := time.LoadLocation(config.SyncTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_TIMEZONE %q: %w", config.SyncTimezone, err)
	}
	config.Location = loc

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.CronSecret == "" {
			return nil, fmt.Errorf("CRON_SECRET is required")
		}
	}

	return config, nil
}
