package marketing

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princekumarofficial/portfolio-service/internal/events"
	"github.com/princekumarofficial/portfolio-service/internal/services/media/mediatest"
	"github.com/princekumarofficial/portfolio-service/internal/storage"
	"github.com/princekumarofficial/portfolio-service/internal/storage/memdb"
	"github.com/princekumarofficial/portfolio-service/internal/types"
	mediatypes "github.com/princekumarofficial/portfolio-service/internal/types/media"
)

func newService(t *testing.T) (*Service, *mediatest.Store, *events.Recorder) {
	t.Helper()
	store, err := memdb.New()
	require.NoError(t, err)
	objects := mediatest.New()
	rec := &events.Recorder{}
	return NewService(store, objects, rec, nil), objects, rec
}

func create(t *testing.T, svc *Service, title string) types.MarketingItem {
	t.Helper()
	item, err := svc.Create(context.Background(), types.CreateMarketingItemRequest{
		Title:    title,
		ImageURL: "http://objects.test/portfolio-media/marketing/" + title + ".png",
	})
	require.NoError(t, err)
	return item
}

func TestCreate_EmptyGalleryStartsAtZero(t *testing.T) {
	svc, _, _ := newService(t)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	first := create(t, svc, "first")
	second := create(t, svc, "second")
	assert.Equal(t, 0, first.OrderIndex)
	assert.Equal(t, 1, second.OrderIndex)
}

func TestCreate_AppendsAfterHighestIndex(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	a := create(t, svc, "a")
	b := create(t, svc, "b")
	c := create(t, svc, "c")

	two, five := 2, 5
	_, err := svc.Update(ctx, b.ID, types.MarketingItemPatch{OrderIndex: &two})
	require.NoError(t, err)
	_, err = svc.Update(ctx, c.ID, types.MarketingItemPatch{OrderIndex: &five})
	require.NoError(t, err)

	d := create(t, svc, "d")
	assert.Equal(t, 6, d.OrderIndex)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []int64{a.ID, b.ID, c.ID, d.ID}, ids)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Create(context.Background(), types.CreateMarketingItemRequest{Title: "no image"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	_, err = svc.Create(context.Background(), types.CreateMarketingItemRequest{Title: "bad", ImageURL: "not a url"})
	require.ErrorAs(t, err, &verrs)
}

func TestUpdateAndDelete(t *testing.T) {
	svc, _, rec := newService(t)
	ctx := context.Background()
	item := create(t, svc, "flyer")

	title := "Flyer festival"
	updated, err := svc.Update(ctx, item.ID, types.MarketingItemPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, item.ImageURL, updated.ImageURL)

	require.NoError(t, svc.Delete(ctx, item.ID))
	assert.ErrorIs(t, svc.Delete(ctx, item.ID), storage.ErrNotFound)

	_, err = svc.Update(ctx, item.ID, types.MarketingItemPatch{Title: &title})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	actions := make([]types.ChangeAction, 0, len(rec.Changes))
	for _, c := range rec.Changes {
		assert.Equal(t, types.ResourceMarketing, c.Resource)
		actions = append(actions, c.Action)
	}
	assert.Equal(t, []types.ChangeAction{types.ActionCreated, types.ActionUpdated, types.ActionDeleted}, actions)
}

func TestUploadImage(t *testing.T) {
	svc, objects, _ := newService(t)
	ctx := context.Background()

	_, err := svc.UploadImage(ctx, mediatypes.Upload{Name: "spot.mp4", ContentType: "video/mp4", Body: strings.NewReader("x")})
	require.ErrorIs(t, err, mediatypes.ErrKindMismatch)
	assert.Zero(t, objects.PutCalls())

	url, err := svc.UploadImage(ctx, mediatypes.Upload{Name: "poster.jpg", ContentType: "image/jpeg", Body: strings.NewReader("x")})
	require.NoError(t, err)

	key, ok := objects.KeyFromURL(url)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(key, "marketing/marketing-"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.True(t, objects.Has(key))
}
