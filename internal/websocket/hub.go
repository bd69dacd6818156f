package websocket

import (
	"context"
	"log/slog"
	"sync"

	"github.com/princekumarofficial/portfolio-service/internal/types"
)

// Hub maintains the set of live view clients and broadcasts events to them
type Hub struct {
	// Registered clients mapped by connection ID
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *types.Event
	resync     chan struct{}
	done       chan struct{}

	// Mutex to protect clients map
	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *types.Event, 64),
		resync:     make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop. It returns when ctx is done, closing every
// remaining client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				client.close()
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
			slog.Info("WebSocket client connected", slog.String("client_id", client.id))

		case client := <-h.unregister:
			h.remove(client)

		case event := <-h.broadcast:
			h.broadcastAll(event)

		case <-h.resync:
			h.resyncAll()
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client.id]
	if ok {
		delete(h.clients, client.id)
	}
	h.mu.Unlock()

	if ok {
		client.close()
		slog.Info("WebSocket client disconnected", slog.String("client_id", client.id))
	}
}

// RegisterClient registers a new client. It reports false once the hub has
// stopped.
func (h *Hub) RegisterClient(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// UnregisterClient unregisters a client
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		client.close()
	}
}

// BroadcastAll queues an event for every connected client. When the queue
// is full a dropped content change turns into a resync of every client.
func (h *Hub) BroadcastAll(event *types.Event) {
	select {
	case h.broadcast <- event:
		return
	default:
	}

	if event.Type != types.EventContentChanged {
		slog.Warn("Broadcast channel is full, dropping message", slog.String("type", string(event.Type)))
		return
	}
	slog.Warn("Broadcast channel is full, clients will resync")
	select {
	case h.resync <- struct{}{}:
	default:
		// a resync is already pending
	}
}

func (h *Hub) resyncAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		client.Resync()
	}
}

func (h *Hub) broadcastAll(event *types.Event) {
	h.mu.RLock()
	var failed []*Client
	for _, client := range h.clients {
		if err := client.Deliver(event); err != nil {
			slog.Error("Failed to send event to client",
				slog.String("client_id", client.id),
				slog.String("error", err.Error()))
			failed = append(failed, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range failed {
		h.remove(client)
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
