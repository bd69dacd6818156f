package site

import (
	"sync"
	"time"

	"github.com/princekumarofficial/portfolio-service/internal/types"
)

// FadeDelay is how long a section change stays in the animating state.
const FadeDelay = 300 * time.Millisecond

// Notify receives section.fading and section.changed events. It is called
// without the switcher's lock held, possibly from a timer goroutine.
type Notify func(types.EventType, types.SectionEvent)

// SwitcherState is a point-in-time view of a Switcher.
type SwitcherState struct {
	Active    types.Section `json:"active"`
	Target    types.Section `json:"target,omitempty"`
	Animating bool          `json:"animating"`
}

// Switcher holds the active section. A request enters the animating state and
// arms a timer; when it fires the target becomes active. A request made while
// animating retargets and restarts the timer, so only the last request of a
// burst ever becomes active.
type Switcher struct {
	mu        sync.Mutex
	active    types.Section
	target    types.Section
	animating bool
	gen       uint64
	timer     *time.Timer
	closed    bool

	delay  time.Duration
	notify Notify
}

func NewSwitcher(initial types.Section, delay time.Duration, notify Notify) *Switcher {
	if notify == nil {
		notify = func(types.EventType, types.SectionEvent) {}
	}
	return &Switcher{
		active: initial,
		delay:  delay,
		notify: notify,
	}
}

// Request asks for section to become active. It reports whether a fade was
// started; asking for the already active section while idle does nothing.
func (s *Switcher) Request(section types.Section) bool {
	s.mu.Lock()
	if s.closed || (!s.animating && section == s.active) {
		s.mu.Unlock()
		return false
	}

	s.animating = true
	s.target = section
	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() { s.fire(gen) })
	from := s.active
	s.mu.Unlock()

	s.notify(types.EventSectionFading, types.SectionEvent{Section: section, From: from})
	return true
}

func (s *Switcher) fire(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	from := s.active
	s.active = s.target
	s.target = ""
	s.animating = false
	s.timer = nil
	active := s.active
	s.mu.Unlock()

	s.notify(types.EventSectionChanged, types.SectionEvent{Section: active, From: from, ResetScroll: true})
}

func (s *Switcher) State() SwitcherState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SwitcherState{Active: s.active, Target: s.target, Animating: s.animating}
}

func (s *Switcher) Active() types.Section {
	return s.State().Active
}

// Close stops a pending fade. Later requests are ignored.
func (s *Switcher) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
