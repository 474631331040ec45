package cmd

import (
	"context"
	"fmt"
	"time"

	"gitpulse/api"
	"gitpulse/config"
	"gitpulse/database"
	"gitpulse/discord"
	"gitpulse/events"
	"gitpulse/github"
	"gitpulse/llm"
	"gitpulse/repository"
	"gitpulse/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	}
	log.WithField("environment", cfg.Environment).Info("Starting gitpulse")

	// Initialize database connection
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established")

	// Initialize repositories
	userRepo := repository.NewTrackedUserRepository(db)
	statRepo := repository.NewDailyStatRepository(db)
	engagementRepo := repository.NewEngagementStatusRepository(db)
	checkpointRepo := repository.NewSyncCheckpointRepository(db)
	runRepo := repository.NewSyncRunRepository(db)

	// Initialize event bus and best-effort subscribers
	eventBus := events.NewBus()

	var notifier *discord.Notifier
	if cfg.DiscordToken != "" && cfg.DiscordChannelID != "" {
		notifier, err = discord.NewNotifier(cfg.DiscordToken, cfg.DiscordChannelID)
		if err != nil {
			return fmt.Errorf("failed to initialize discord notifier: %w", err)
		}
		notifier.Register(eventBus)
		log.Info("Discord outreach notifier registered")
	} else {
		log.Info("Discord outreach disabled, no token configured")
	}

	// Initialize enrichment summarizer
	var summarizer service.Summarizer
	if cfg.LLMAPIKey != "" && cfg.LLMBaseURL != "" {
		summarizer = llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
		log.WithField("model", cfg.LLMModel).Info("Day summaries enabled")
	} else {
		log.Info("Day summaries disabled, no LLM endpoint configured")
	}

	// Initialize GitHub client and sync service
	githubClient := github.NewClient(cfg.GithubBaseURL, cfg.EventsPerPage)
	syncService := service.NewSyncService(
		cfg,
		userRepo,
		statRepo,
		engagementRepo,
		checkpointRepo,
		runRepo,
		githubClient,
		summarizer,
		eventBus,
	)

	// Start the HTTP server
	server := api.NewServer(cfg, syncService, db)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server failure
	select {
	case err := <-serverErr:
		db.Close()
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown error")
	}

	db.Close()
	log.Info("Shutdown completed")

	return nil
}
