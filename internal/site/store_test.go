package site

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princekumarofficial/portfolio-service/internal/types"
)

type fakeSource struct {
	mu       sync.Mutex
	projects []types.Project
	items    []types.MarketingItem
	err      error
}

func (f *fakeSource) ListProjects(ctx context.Context) ([]types.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]types.Project(nil), f.projects...), nil
}

func (f *fakeSource) List(ctx context.Context) ([]types.MarketingItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]types.MarketingItem(nil), f.items...), nil
}

func (f *fakeSource) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func newLoadedStore(t *testing.T) (*Store, *fakeSource) {
	t.Helper()
	src := &fakeSource{
		projects: []types.Project{{ID: 1, Title: "Amanecer", Media: []types.Media{}}},
		items:    []types.MarketingItem{{ID: 1, Title: "a", OrderIndex: 0}, {ID: 2, Title: "b", OrderIndex: 3}},
	}
	s := NewStore(src, src)
	require.NoError(t, s.Reload(context.Background()))
	return s, src
}

func TestStore_ReloadConfirmsEverything(t *testing.T) {
	s, _ := newLoadedStore(t)

	snap := s.Snapshot()
	assert.False(t, snap.Pending)
	require.Len(t, snap.Projects, 1)
	assert.Equal(t, Confirmed, snap.Projects[0].State)
	assert.Len(t, snap.Marketing, 2)
	assert.False(t, snap.ReloadedAt.IsZero())
}

func TestStore_PatchIsPendingUntilReload(t *testing.T) {
	s, src := newLoadedStore(t)

	media := types.Media{ID: "m1", ProjectID: 1, Kind: types.MediaImage}
	require.True(t, s.Patch(types.ContentChange{
		Resource: types.ResourceMedia, Action: types.ActionCreated, ID: "m1", ProjectID: 1, Media: &media,
	}))

	snap := s.Snapshot()
	assert.True(t, snap.Pending)
	require.Len(t, snap.Projects[0].Media, 1)
	assert.Equal(t, Pending, snap.Projects[0].State)

	src.mu.Lock()
	src.projects[0].Media = []types.Media{media}
	src.mu.Unlock()

	require.NoError(t, s.Reload(context.Background()))
	snap = s.Snapshot()
	assert.False(t, snap.Pending)
	assert.Equal(t, Confirmed, snap.Projects[0].State)
	assert.Len(t, snap.Projects[0].Media, 1)
}

func TestStore_FailedReloadKeepsPendingState(t *testing.T) {
	s, src := newLoadedStore(t)

	s.RemoveProject(1)
	src.fail(errors.New("connection refused"))

	err := s.Apply(context.Background(), types.ContentChange{
		Resource: types.ResourceMarketing, Action: types.ActionDeleted, ID: "2",
	})
	require.Error(t, err)

	snap := s.Snapshot()
	assert.True(t, snap.Pending)
	assert.Empty(t, snap.Projects)
	assert.Equal(t, []int64{1}, snap.RemovedProjects)
	assert.Equal(t, []int64{2}, snap.RemovedMarketing)
	require.Len(t, snap.Marketing, 1)
	assert.Contains(t, snap.LastError, "connection refused")

	src.fail(nil)
	require.NoError(t, s.Reload(context.Background()))
	snap = s.Snapshot()
	assert.False(t, snap.Pending)
	assert.Empty(t, snap.LastError)
	assert.Len(t, snap.Projects, 1)
}

func TestStore_PutMarketingItemKeepsOrder(t *testing.T) {
	s, _ := newLoadedStore(t)

	s.PutMarketingItem(types.MarketingItem{ID: 3, Title: "c", OrderIndex: 1})
	snap := s.Snapshot()
	require.Len(t, snap.Marketing, 3)
	assert.Equal(t, []int64{1, 3, 2}, []int64{snap.Marketing[0].ID, snap.Marketing[1].ID, snap.Marketing[2].ID})
	assert.Equal(t, Pending, snap.Marketing[1].State)
	assert.Equal(t, Confirmed, snap.Marketing[0].State)
}

func TestStore_PutProjectKeepsMediaWhenAbsent(t *testing.T) {
	s, _ := newLoadedStore(t)
	s.AddMedia(types.Media{ID: "m1", ProjectID: 1})

	s.PutProject(types.Project{ID: 1, Title: "Amanecer (director's cut)"})
	snap := s.Snapshot()
	require.Len(t, snap.Projects, 1)
	assert.Equal(t, "Amanecer (director's cut)", snap.Projects[0].Title)
	assert.Len(t, snap.Projects[0].Media, 1)

	s.RemoveMedia("m1")
	assert.Empty(t, s.Snapshot().Projects[0].Media)
}

func TestStore_PatchIgnoresUnrelatedChanges(t *testing.T) {
	s, _ := newLoadedStore(t)

	assert.False(t, s.Patch(types.ContentChange{Resource: types.ResourceProfile, Action: types.ActionUpdated, ID: "1"}))
	assert.False(t, s.Patch(types.ContentChange{Resource: types.ResourceProject, Action: types.ActionUpdated, ID: "1"}))
	assert.False(t, s.Snapshot().Pending)
}
