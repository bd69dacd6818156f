package types

import "time"

// EventType represents the type of real-time event
type EventType string

const (
	EventContentChanged EventType = "content.changed"
	EventStateSnapshot  EventType = "state.snapshot"
	EventSectionFading  EventType = "section.fading"
	EventSectionChanged EventType = "section.changed"
	EventError          EventType = "error"
)

// Event represents a real-time event that can be sent over WebSocket
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

type Resource string

const (
	ResourceProject   Resource = "project"
	ResourceMedia     Resource = "media"
	ResourceMarketing Resource = "marketing"
	ResourceProfile   Resource = "profile"
)

type ChangeAction string

const (
	ActionCreated ChangeAction = "created"
	ActionUpdated ChangeAction = "updated"
	ActionDeleted ChangeAction = "deleted"
)

// ContentChange describes a committed mutation. The entity field matching
// Resource is set for created/updated changes.
type ContentChange struct {
	Resource  Resource       `json:"resource"`
	Action    ChangeAction   `json:"action"`
	ID        string         `json:"id"`
	ProjectID int64          `json:"project_id,omitempty"`
	Project   *Project       `json:"project,omitempty"`
	Media     *Media         `json:"media,omitempty"`
	Item      *MarketingItem `json:"item,omitempty"`
}

type SectionEvent struct {
	Section     Section `json:"section"`
	From        Section `json:"from"`
	ResetScroll bool    `json:"reset_scroll,omitempty"`
}

// ClientMessage is a message received from a live view client.
type ClientMessage struct {
	Type    string  `json:"type"`
	Section Section `json:"section,omitempty"`
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
