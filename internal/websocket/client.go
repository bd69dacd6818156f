package websocket

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/princekumarofficial/portfolio-service/internal/types"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

var (
	ErrClientClosed = errors.New("client closed")
	ErrSlowClient   = errors.New("client send buffer full")
)

// Handler consumes what a client receives: messages read from the peer and
// events broadcast by the hub.
type Handler interface {
	HandleMessage(msg types.ClientMessage)
	HandleEvent(event *types.Event)
	// Resync is called when broadcasts were dropped and the handler must
	// rebuild its state from the source.
	Resync()
	Close()
}

// Client represents a WebSocket client connection
type Client struct {
	id   string
	conn *websocket.Conn
	hub  *Hub

	handler Handler

	// Buffered channel of outbound messages
	send   chan []byte
	mu     sync.Mutex
	closed bool
}

// NewClient creates a new WebSocket client with a fresh connection ID
func NewClient(conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		id:   uuid.NewString(),
		conn: conn,
		hub:  hub,
		send: make(chan []byte, 256),
	}
}

// Attach sets the handler. It must be called before Start.
func (c *Client) Attach(handler Handler) {
	c.handler = handler
}

func (c *Client) ID() string {
	return c.id
}

// readPump pumps messages from the websocket connection to the handler
func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", slog.String("error", err.Error()))
			}
			break
		}

		var msg types.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.SendEvent(types.NewEvent(types.EventError, map[string]string{"error": "malformed message"}))
			continue
		}
		if c.handler != nil {
			c.handler.HandleMessage(msg)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One event per frame; viewers parse each frame as a JSON object.
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendEvent queues an event for this client
func (c *Client) SendEvent(event *types.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrSlowClient
	}
}

// Deliver forwards a broadcast event to the peer and then to the handler.
func (c *Client) Deliver(event *types.Event) error {
	if err := c.SendEvent(event); err != nil {
		return err
	}
	if c.handler != nil {
		c.handler.HandleEvent(event)
	}
	return nil
}

// Resync forwards a resync request to the handler of an open client.
func (c *Client) Resync() {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if !closed && c.handler != nil {
		c.handler.Resync()
	}
}

func (c *Client) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()

	if c.handler != nil {
		c.handler.Close()
	}
}

// Start starts the client's read and write pumps
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}
