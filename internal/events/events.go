package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ===== EVENT TYPES =====

const (
	EventCourseCreated     = "course.created"
	EventCourseUpdated     = "course.updated"
	EventCourseDeleted     = "course.deleted"
	EventEnrollmentCreated = "enrollment.created"
	EventUserCreated       = "user.created"
	EventUserDeleted       = "user.deleted"
)

// Event is the envelope published on every recorded platform action.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	ActorID    string          `json:"actor_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// NewEvent builds an envelope with the payload marshaled in. A payload that
// cannot marshal is a programming error and produces an empty payload.
func NewEvent(eventType, actorID string, payload any) Event {
	event := Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			event.Payload = raw
		}
	}
	return event
}

// Publisher delivers platform events to the message bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event Event) error { return nil }
func (NoopPublisher) Close() error                                   { return nil }
