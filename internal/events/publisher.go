package events

import (
	"github.com/princekumarofficial/portfolio-service/internal/types"
)

// Publisher interface for publishing events
type Publisher interface {
	PublishContentChanged(change types.ContentChange)
}

// EventPublisher implements the Publisher interface
type EventPublisher struct {
	hub WebSocketHub
}

// WebSocketHub interface for the WebSocket hub
type WebSocketHub interface {
	BroadcastAll(event *types.Event)
	GetClientCount() int
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(hub WebSocketHub) *EventPublisher {
	return &EventPublisher{
		hub: hub,
	}
}

// PublishContentChanged tells every live view that persisted content moved.
func (p *EventPublisher) PublishContentChanged(change types.ContentChange) {
	if p.hub.GetClientCount() == 0 {
		return
	}

	p.hub.BroadcastAll(types.NewEvent(types.EventContentChanged, change))
}

// Discard drops every event. Used by the CLI and by tests that do not
// observe events.
type Discard struct{}

func (Discard) PublishContentChanged(types.ContentChange) {}

// Recorder keeps published changes in memory.
type Recorder struct {
	Changes []types.ContentChange
}

func (r *Recorder) PublishContentChanged(change types.ContentChange) {
	r.Changes = append(r.Changes, change)
}
