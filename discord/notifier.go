package discord

import (
	"context"
	"fmt"

	"gitpulse/events"
	"gitpulse/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Notifier sends templated outreach messages when a user's engagement
// classification warrants one. It subscribes to the event bus and runs
// entirely outside the sync pipeline: a Discord outage can never fail a
// run. Messages are sent over the REST API, no gateway connection is
// opened.
type Notifier struct {
	session   *discordgo.Session
	channelID string
}

// NewNotifier creates a Discord outreach notifier
func NewNotifier(token, channelID string) (*Notifier, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}

	return &Notifier{
		session:   session,
		channelID: channelID,
	}, nil
}

// Register subscribes the notifier to engagement classification events
func (n *Notifier) Register(bus *events.Bus) {
	bus.Subscribe(events.EventTypeEngagementClassified, n.handleEngagementClassified)
}

func (n *Notifier) handleEngagementClassified(ctx context.Context, event events.Event) {
	classified, ok := event.(events.EngagementClassifiedEvent)
	if !ok {
		return
	}

	// Normal users get no outreach
	if classified.RecommendedMessageType == nil {
		return
	}

	message := n.buildMessage(classified)
	if message == "" {
		return
	}

	if _, err := n.session.ChannelMessageSend(n.channelID, message); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"user":        classified.GithubUsername,
			"messageType": *classified.RecommendedMessageType,
		}).Warn("Failed to send outreach message")
		return
	}

	log.WithFields(log.Fields{
		"user":        classified.GithubUsername,
		"messageType": *classified.RecommendedMessageType,
	}).Info("Outreach message sent")
}

func (n *Notifier) buildMessage(classified events.EngagementClassifiedEvent) string {
	mention := classified.GithubUsername
	if classified.DiscordID != nil {
		mention = fmt.Sprintf("<@%s>", *classified.DiscordID)
	}

	switch *classified.RecommendedMessageType {
	case models.MessageTypeActiveEncouragement:
		return fmt.Sprintf("%s has been on fire: %d commits in the last week. Keep the streak going! 🔥",
			mention, classified.CommitsLast7Days)
	case models.MessageTypeStagnantReminder:
		return fmt.Sprintf("%s, it's been two quiet weeks on GitHub. Even a small commit keeps the habit alive. Anything we can help with?",
			mention)
	default:
		return ""
	}
}
