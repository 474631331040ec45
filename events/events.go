package events

import (
	"context"
	"sync"

	"gitpulse/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeEngagementClassified EventType = "engagement_classified"
	EventTypeSyncRunCompleted     EventType = "sync_run_completed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// EngagementClassifiedEvent is emitted after a user's engagement status
// has been persisted. Outreach subscribers react to it; the sync
// pipeline never waits on them.
type EngagementClassifiedEvent struct {
	UserID                 int64
	GithubUsername         string
	DiscordID              *string
	Status                 models.EngagementLevel
	RecommendedMessageType *string
	CommitsLast7Days       int
	CommitsLast14Days      int
}

func (e EngagementClassifiedEvent) Type() EventType {
	return EventTypeEngagementClassified
}

// SyncRunCompletedEvent is emitted once per finished sync invocation
type SyncRunCompletedEvent struct {
	RunID        string
	SuccessCount int
	FailureCount int
	DaysSynced   int
}

func (e SyncRunCompletedEvent) Type() EventType {
	return EventTypeSyncRunCompleted
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching. Handlers run in
// their own goroutines; a panicking or failing handler cannot fail the
// sync run that emitted the event.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers asynchronously.
// The handler context is detached from the caller's cancellation: the
// emitting request may complete long before a handler finishes, and a
// fire-and-forget handler must not be cut off by that.
func (b *Bus) Emit(ctx context.Context, event Event) {
	ctx = context.WithoutCancel(ctx)

	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}
