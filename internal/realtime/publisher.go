package realtime

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types delivered over the fan-out channel.
const (
	EventNewMessage         = "new_message"
	EventNewMatch           = "new_match"
	EventNotification       = "notification"
	EventConversationUpdate = "conversation_update"
)

// Event is the wire envelope pushed to subscribed clients.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Topic     string      `json:"topic,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

func NewEvent(eventType string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
}

// MatchTopic is the per-match channel carrying new-message events.
func MatchTopic(matchID uint) string {
	return fmt.Sprintf("match-%d", matchID)
}

// UserTopic is the per-user channel carrying notification and
// conversation-update events.
func UserTopic(userID uint) string {
	return fmt.Sprintf("user-%d", userID)
}

// Publisher is the fire-and-forget fan-out capability injected into the
// engine. Publishing to a topic with no subscribers is a silent no-op; a
// publish failure is logged by the caller and never escalates into the
// primary operation's result.
type Publisher interface {
	Publish(topic string, event Event) error
}

// NopPublisher drops every event. Used when no broker is configured and in
// tests that only exercise the primary action.
type NopPublisher struct{}

func (NopPublisher) Publish(string, Event) error { return nil }
