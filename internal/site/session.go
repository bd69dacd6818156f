package site

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/princekumarofficial/portfolio-service/internal/types"
)

// Client message types.
const (
	MessageNavigate = "navigate"
	MessageReload   = "reload"
	MessageState    = "state"
)

// Sender delivers events to one viewer.
type Sender interface {
	SendEvent(event *types.Event) error
}

// SessionState is the payload of a state.snapshot event.
type SessionState struct {
	Section SwitcherState `json:"section"`
	Content Snapshot      `json:"content"`
}

// Session drives one viewer: its own Store and Switcher, fed by client
// messages and by content.changed broadcasts. Store work runs on the
// session's goroutine so a slow reload never blocks the hub.
type Session struct {
	store    *Store
	switcher *Switcher
	send     Sender
	logger   *slog.Logger

	changes chan types.ContentChange
	reload  chan struct{}

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func NewSession(store *Store, send Sender, fade time.Duration, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		store:   store,
		send:    send,
		logger:  logger,
		changes: make(chan types.ContentChange, 16),
		reload:  make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
	s.switcher = NewSwitcher(types.SectionHome, fade, s.onSection)
	return s
}

// Start loads the initial state, sends it, and begins processing changes.
func (s *Session) Start() {
	go s.run()
}

func (s *Session) run() {
	s.reconcile()

	for {
		select {
		case <-s.ctx.Done():
			return
		case change := <-s.changes:
			if s.store.Patch(change) {
				s.sendSnapshot()
				s.reconcile()
			}
		case <-s.reload:
			s.reconcile()
		}
	}
}

func (s *Session) reconcile() {
	if err := s.store.Reload(s.ctx); err != nil {
		if s.ctx.Err() != nil {
			return
		}
		s.logger.Warn("live view reload failed", slog.String("error", err.Error()))
		s.sendError(err.Error())
	}
	s.sendSnapshot()
}

func (s *Session) requestReload() {
	select {
	case s.reload <- struct{}{}:
	default:
	}
}

// HandleMessage handles a message read from the viewer's connection.
func (s *Session) HandleMessage(msg types.ClientMessage) {
	switch msg.Type {
	case MessageNavigate:
		section, err := types.ParseSection(string(msg.Section))
		if err != nil {
			s.sendError(err.Error())
			return
		}
		s.switcher.Request(section)
	case MessageReload:
		s.requestReload()
	case MessageState:
		s.sendSnapshot()
	default:
		s.sendError("unknown message type " + msg.Type)
	}
}

// HandleEvent picks content changes out of hub broadcasts.
func (s *Session) HandleEvent(event *types.Event) {
	if event.Type != types.EventContentChanged {
		return
	}

	var change types.ContentChange
	switch data := event.Data.(type) {
	case types.ContentChange:
		change = data
	case *types.ContentChange:
		change = *data
	default:
		return
	}

	select {
	case s.changes <- change:
	default:
		// queue full; a reload picks up everything
		s.requestReload()
	}
}

// Resync reloads the store after broadcasts were lost.
func (s *Session) Resync() {
	s.requestReload()
}

func (s *Session) State() SessionState {
	return SessionState{Section: s.switcher.State(), Content: s.store.Snapshot()}
}

func (s *Session) onSection(eventType types.EventType, ev types.SectionEvent) {
	s.emit(types.NewEvent(eventType, ev))
}

func (s *Session) sendSnapshot() {
	s.emit(types.NewEvent(types.EventStateSnapshot, s.State()))
}

func (s *Session) sendError(msg string) {
	s.emit(types.NewEvent(types.EventError, map[string]string{"error": msg}))
}

func (s *Session) emit(event *types.Event) {
	if s.ctx.Err() != nil {
		return
	}
	if err := s.send.SendEvent(event); err != nil {
		s.logger.Warn("failed to send live view event",
			slog.String("type", string(event.Type)),
			slog.String("error", err.Error()))
	}
}

// Close stops the session's goroutine and any pending fade.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.switcher.Close()
	})
}
