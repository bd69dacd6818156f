package site

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princekumarofficial/portfolio-service/internal/types"
)

type recorded struct {
	typ types.EventType
	ev  types.SectionEvent
}

type notifications struct {
	mu     sync.Mutex
	events []recorded
}

func (n *notifications) notify(typ types.EventType, ev types.SectionEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recorded{typ, ev})
}

func (n *notifications) ofType(typ types.EventType) []types.SectionEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []types.SectionEvent
	for _, r := range n.events {
		if r.typ == typ {
			out = append(out, r.ev)
		}
	}
	return out
}

func TestSwitcher_RequestCompletesAfterDelay(t *testing.T) {
	n := &notifications{}
	s := NewSwitcher(types.SectionHome, 20*time.Millisecond, n.notify)
	defer s.Close()

	require.True(t, s.Request(types.SectionWorks))
	st := s.State()
	assert.True(t, st.Animating)
	assert.Equal(t, types.SectionHome, st.Active)
	assert.Equal(t, types.SectionWorks, st.Target)

	require.Eventually(t, func() bool { return !s.State().Animating }, time.Second, 5*time.Millisecond)
	assert.Equal(t, types.SectionWorks, s.Active())

	changed := n.ofType(types.EventSectionChanged)
	require.Len(t, changed, 1)
	assert.Equal(t, types.SectionWorks, changed[0].Section)
	assert.Equal(t, types.SectionHome, changed[0].From)
	assert.True(t, changed[0].ResetScroll)
}

func TestSwitcher_SameSectionWhileIdleIsNoop(t *testing.T) {
	n := &notifications{}
	s := NewSwitcher(types.SectionAbout, 10*time.Millisecond, n.notify)
	defer s.Close()

	assert.False(t, s.Request(types.SectionAbout))
	assert.False(t, s.State().Animating)
	assert.Empty(t, n.ofType(types.EventSectionFading))
}

func TestSwitcher_RapidDoubleSwitchEndsAtSecond(t *testing.T) {
	n := &notifications{}
	s := NewSwitcher(types.SectionHome, 30*time.Millisecond, n.notify)
	defer s.Close()

	require.True(t, s.Request(types.SectionWorks))
	require.True(t, s.Request(types.SectionContact))

	require.Eventually(t, func() bool { return !s.State().Animating }, time.Second, 5*time.Millisecond)
	// give a stale timer a chance to misfire
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, types.SectionContact, s.Active())
	changed := n.ofType(types.EventSectionChanged)
	require.Len(t, changed, 1)
	assert.Equal(t, types.SectionContact, changed[0].Section)
	assert.Len(t, n.ofType(types.EventSectionFading), 2)
}

func TestSwitcher_CloseStopsPendingFade(t *testing.T) {
	n := &notifications{}
	s := NewSwitcher(types.SectionHome, 20*time.Millisecond, n.notify)

	require.True(t, s.Request(types.SectionMarketing))
	s.Close()
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, types.SectionHome, s.Active())
	assert.Empty(t, n.ofType(types.EventSectionChanged))
	assert.False(t, s.Request(types.SectionAbout))
}
