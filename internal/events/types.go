// Package events publishes content mutation events to a Redis stream so other
// services can react to admin writes.
package events

import (
	"time"

	"github.com/google/uuid"
)

// DefaultStream is the Redis stream for content events.
const DefaultStream = "content-events"

// EventType represents the type of content event.
type EventType string

const (
	ContentCreated EventType = "CONTENT_CREATED"
	ContentUpdated EventType = "CONTENT_UPDATED"
	ContentDeleted EventType = "CONTENT_DELETED"
	ContentSeeded  EventType = "CONTENT_SEEDED"
)

// Action is the short lowercase form used in metrics labels.
func (t EventType) Action() string {
	switch t {
	case ContentCreated:
		return "created"
	case ContentUpdated:
		return "updated"
	case ContentDeleted:
		return "deleted"
	case ContentSeeded:
		return "seeded"
	default:
		return "unknown"
	}
}

// ContentEvent is the envelope appended to the stream.
type ContentEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	EventType EventType `json:"event_type"`
	Entity    string    `json:"entity"`
	Key       string    `json:"key,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}
