package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princekumarofficial/portfolio-service/internal/types"
)

type recordingHandler struct {
	mu      sync.Mutex
	events  []types.EventType
	resyncs int
	closed  bool
}

func (h *recordingHandler) HandleMessage(types.ClientMessage) {}

func (h *recordingHandler) HandleEvent(event *types.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event.Type)
}

func (h *recordingHandler) Resync() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resyncs++
}

func (h *recordingHandler) resyncCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.resyncs
}

func (h *recordingHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
}

func (h *recordingHandler) snapshot() ([]types.EventType, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]types.EventType(nil), h.events...), h.closed
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func newTestClient(hub *Hub) (*Client, *recordingHandler) {
	c := NewClient(nil, hub)
	h := &recordingHandler{}
	c.Attach(h)
	return c, h
}

func TestHub_BroadcastReachesPeerAndHandler(t *testing.T) {
	hub, _ := startHub(t)
	a, ha := newTestClient(hub)
	b, _ := newTestClient(hub)
	require.True(t, hub.RegisterClient(a))
	require.True(t, hub.RegisterClient(b))
	require.Eventually(t, func() bool { return hub.GetClientCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.BroadcastAll(types.NewEvent(types.EventContentChanged, types.ContentChange{
		Resource: types.ResourceProject,
		Action:   types.ActionDeleted,
		ID:       "3",
	}))

	for _, c := range []*Client{a, b} {
		select {
		case data := <-c.send:
			var ev types.Event
			require.NoError(t, json.Unmarshal(data, &ev))
			assert.Equal(t, types.EventContentChanged, ev.Type)
		case <-time.After(time.Second):
			t.Fatal("broadcast not delivered")
		}
	}

	require.Eventually(t, func() bool {
		events, _ := ha.snapshot()
		return len(events) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestHub_UnregisterClosesClient(t *testing.T) {
	hub, _ := startHub(t)
	c, h := newTestClient(hub)
	require.True(t, hub.RegisterClient(c))
	require.Eventually(t, func() bool { return hub.GetClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.UnregisterClient(c)
	require.Eventually(t, func() bool {
		_, closed := h.snapshot()
		return closed
	}, time.Second, 5*time.Millisecond)
	assert.Zero(t, hub.GetClientCount())
	assert.ErrorIs(t, c.SendEvent(types.NewEvent(types.EventStateSnapshot, nil)), ErrClientClosed)

	// a second unregister is harmless
	hub.UnregisterClient(c)
}

func TestHub_StopClosesClientsAndRejectsNewOnes(t *testing.T) {
	hub, cancel := startHub(t)
	c, h := newTestClient(hub)
	require.True(t, hub.RegisterClient(c))

	cancel()
	require.Eventually(t, func() bool {
		_, closed := h.snapshot()
		return closed
	}, time.Second, 5*time.Millisecond)

	late, lateHandler := newTestClient(hub)
	assert.False(t, hub.RegisterClient(late))
	hub.UnregisterClient(late)
	_, closed := lateHandler.snapshot()
	assert.True(t, closed)
}

func TestClient_SlowClientIsDropped(t *testing.T) {
	hub, _ := startHub(t)
	c, h := newTestClient(hub)
	require.True(t, hub.RegisterClient(c))

	ev := types.NewEvent(types.EventStateSnapshot, nil)
	for range cap(c.send) {
		require.NoError(t, c.SendEvent(ev))
	}
	assert.ErrorIs(t, c.SendEvent(ev), ErrSlowClient)

	hub.BroadcastAll(ev)
	require.Eventually(t, func() bool {
		_, closed := h.snapshot()
		return closed
	}, time.Second, 5*time.Millisecond)
	assert.Zero(t, hub.GetClientCount())
}

func TestHub_FullQueueTurnsContentChangesIntoResync(t *testing.T) {
	hub := NewHub()
	c, h := newTestClient(hub)
	hub.clients[c.id] = c

	change := types.NewEvent(types.EventContentChanged, types.ContentChange{
		Resource: types.ResourceMarketing,
		Action:   types.ActionUpdated,
		ID:       "1",
	})
	for range cap(hub.broadcast) {
		hub.BroadcastAll(change)
	}
	// queue is full and the hub is not running yet
	hub.BroadcastAll(change)
	hub.BroadcastAll(change)
	assert.Len(t, hub.resync, 1)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	require.Eventually(t, func() bool {
		events, _ := h.snapshot()
		return len(events) == cap(hub.broadcast) && h.resyncCount() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestHub_FullQueueDropsOtherEvents(t *testing.T) {
	hub := NewHub()
	ev := types.NewEvent(types.EventStateSnapshot, nil)
	for range cap(hub.broadcast) + 1 {
		hub.BroadcastAll(ev)
	}
	assert.Empty(t, hub.resync)
}
