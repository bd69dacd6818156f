// Package site holds the per-viewer state of the live site: the mirrored
// content lists, the active section and the session tying them to a
// websocket connection.
package site

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/princekumarofficial/portfolio-service/internal/types"
)

// EntryState tells whether an entry matches the last successful reload or
// was patched locally since.
type EntryState string

const (
	Confirmed EntryState = "confirmed"
	Pending   EntryState = "pending"
)

type ProjectEntry struct {
	types.Project
	State EntryState `json:"state"`
}

type MarketingEntry struct {
	types.MarketingItem
	State EntryState `json:"state"`
}

// Snapshot is a copy of the store that callers may keep.
type Snapshot struct {
	Projects         []ProjectEntry   `json:"projects"`
	Marketing        []MarketingEntry `json:"marketing"`
	RemovedProjects  []int64          `json:"removed_projects,omitempty"`
	RemovedMarketing []int64          `json:"removed_marketing,omitempty"`
	Pending          bool             `json:"pending"`
	LastError        string           `json:"last_error,omitempty"`
	ReloadedAt       time.Time        `json:"reloaded_at"`
}

type ProjectSource interface {
	ListProjects(ctx context.Context) ([]types.Project, error)
}

type MarketingSource interface {
	List(ctx context.Context) ([]types.MarketingItem, error)
}

// Store mirrors projects and marketing items for one viewer. Local patches
// mark entries pending; Reload replaces everything with confirmed data. A
// failed reload leaves pending entries in place.
type Store struct {
	projectsSrc  ProjectSource
	marketingSrc MarketingSource
	now          func() time.Time

	mu               sync.RWMutex
	projects         []ProjectEntry
	marketing        []MarketingEntry
	removedProjects  map[int64]struct{}
	removedMarketing map[int64]struct{}
	lastErr          error
	reloadedAt       time.Time
}

func NewStore(projects ProjectSource, marketing MarketingSource) *Store {
	return &Store{
		projectsSrc:      projects,
		marketingSrc:     marketing,
		now:              time.Now,
		removedProjects:  make(map[int64]struct{}),
		removedMarketing: make(map[int64]struct{}),
	}
}

// Reload fetches both lists. On any failure the mirror is kept and the error
// is recorded and returned.
func (s *Store) Reload(ctx context.Context) error {
	projects, perr := s.projectsSrc.ListProjects(ctx)
	items, merr := s.marketingSrc.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := errors.Join(perr, merr); err != nil {
		s.lastErr = fmt.Errorf("reload failed: %w", err)
		return s.lastErr
	}

	s.projects = make([]ProjectEntry, 0, len(projects))
	for _, p := range projects {
		s.projects = append(s.projects, ProjectEntry{Project: p, State: Confirmed})
	}
	s.marketing = make([]MarketingEntry, 0, len(items))
	for _, item := range items {
		s.marketing = append(s.marketing, MarketingEntry{MarketingItem: item, State: Confirmed})
	}
	clear(s.removedProjects)
	clear(s.removedMarketing)
	s.lastErr = nil
	s.reloadedAt = s.now()
	return nil
}

// PutProject inserts or replaces a project. The media list of an existing
// entry is kept when p carries none.
func (s *Store) PutProject(p types.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.projects {
		if s.projects[i].ID == p.ID {
			if p.Media == nil {
				p.Media = s.projects[i].Media
			}
			s.projects[i] = ProjectEntry{Project: p, State: Pending}
			return
		}
	}
	s.projects = append([]ProjectEntry{{Project: p, State: Pending}}, s.projects...)
	delete(s.removedProjects, p.ID)
}

func (s *Store) RemoveProject(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects = filter(s.projects, func(e ProjectEntry) bool { return e.ID != id })
	s.removedProjects[id] = struct{}{}
}

// AddMedia appends m to its project. Unknown projects are ignored until the
// next reload brings them in.
func (s *Store) AddMedia(m types.Media) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.projects {
		if s.projects[i].ID == m.ProjectID {
			media := append([]types.Media(nil), s.projects[i].Media...)
			s.projects[i].Media = append(media, m)
			s.projects[i].State = Pending
			return
		}
	}
}

func (s *Store) RemoveMedia(mediaID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.projects {
		kept := filter(s.projects[i].Media, func(m types.Media) bool { return m.ID != mediaID })
		if len(kept) != len(s.projects[i].Media) {
			s.projects[i].Media = kept
			s.projects[i].State = Pending
			return
		}
	}
}

// PutMarketingItem inserts or replaces an item and keeps the list ordered by
// order index.
func (s *Store) PutMarketingItem(item types.MarketingItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := false
	for i := range s.marketing {
		if s.marketing[i].ID == item.ID {
			s.marketing[i] = MarketingEntry{MarketingItem: item, State: Pending}
			replaced = true
			break
		}
	}
	if !replaced {
		s.marketing = append(s.marketing, MarketingEntry{MarketingItem: item, State: Pending})
	}
	delete(s.removedMarketing, item.ID)

	sort.SliceStable(s.marketing, func(i, j int) bool {
		return s.marketing[i].OrderIndex < s.marketing[j].OrderIndex
	})
}

func (s *Store) RemoveMarketingItem(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.marketing = filter(s.marketing, func(e MarketingEntry) bool { return e.ID != id })
	s.removedMarketing[id] = struct{}{}
}

// Patch applies a content change locally. It reports whether the change
// touched anything this store mirrors.
func (s *Store) Patch(change types.ContentChange) bool {
	switch change.Resource {
	case types.ResourceProject:
		switch change.Action {
		case types.ActionCreated, types.ActionUpdated:
			if change.Project == nil {
				return false
			}
			s.PutProject(*change.Project)
		case types.ActionDeleted:
			id, err := strconv.ParseInt(change.ID, 10, 64)
			if err != nil {
				return false
			}
			s.RemoveProject(id)
		}
		return true

	case types.ResourceMedia:
		switch change.Action {
		case types.ActionCreated:
			if change.Media == nil {
				return false
			}
			s.AddMedia(*change.Media)
		case types.ActionDeleted:
			s.RemoveMedia(change.ID)
		}
		return true

	case types.ResourceMarketing:
		switch change.Action {
		case types.ActionCreated, types.ActionUpdated:
			if change.Item == nil {
				return false
			}
			s.PutMarketingItem(*change.Item)
		case types.ActionDeleted:
			id, err := strconv.ParseInt(change.ID, 10, 64)
			if err != nil {
				return false
			}
			s.RemoveMarketingItem(id)
		}
		return true
	}
	return false
}

// Apply patches the store and then reconciles with a full reload.
func (s *Store) Apply(ctx context.Context, change types.ContentChange) error {
	if !s.Patch(change) {
		return nil
	}
	return s.Reload(ctx)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Projects:   make([]ProjectEntry, len(s.projects)),
		Marketing:  make([]MarketingEntry, len(s.marketing)),
		ReloadedAt: s.reloadedAt,
	}
	for i, e := range s.projects {
		e.Tools = slices.Clone(e.Tools)
		e.Media = slices.Clone(e.Media)
		snap.Projects[i] = e
		snap.Pending = snap.Pending || e.State == Pending
	}
	for i, e := range s.marketing {
		snap.Marketing[i] = e
		snap.Pending = snap.Pending || e.State == Pending
	}
	for id := range s.removedProjects {
		snap.RemovedProjects = append(snap.RemovedProjects, id)
	}
	for id := range s.removedMarketing {
		snap.RemovedMarketing = append(snap.RemovedMarketing, id)
	}
	sort.Slice(snap.RemovedProjects, func(i, j int) bool { return snap.RemovedProjects[i] < snap.RemovedProjects[j] })
	sort.Slice(snap.RemovedMarketing, func(i, j int) bool { return snap.RemovedMarketing[i] < snap.RemovedMarketing[j] })
	snap.Pending = snap.Pending || len(snap.RemovedProjects) > 0 || len(snap.RemovedMarketing) > 0
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}
	return snap
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
