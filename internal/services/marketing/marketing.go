package marketing

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/princekumarofficial/portfolio-service/internal/events"
	"github.com/princekumarofficial/portfolio-service/internal/services/media"
	"github.com/princekumarofficial/portfolio-service/internal/storage"
	"github.com/princekumarofficial/portfolio-service/internal/types"
	mediatypes "github.com/princekumarofficial/portfolio-service/internal/types/media"
)

type Service struct {
	storage   storage.Storage
	objects   media.ObjectStore
	publisher events.Publisher
	logger    *slog.Logger
	validate  *validator.Validate
	now       func() time.Time
}

func NewService(store storage.Storage, objects media.ObjectStore, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		storage:   store,
		objects:   objects,
		publisher: publisher,
		logger:    logger.With(slog.String("component", "marketing")),
		validate:  validator.New(),
		now:       time.Now,
	}
}

// List returns items by ascending order index.
func (s *Service) List(ctx context.Context) ([]types.MarketingItem, error) {
	items, err := s.storage.ListMarketingItems(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []types.MarketingItem{}
	}
	return items, nil
}

// Create appends the item after the current highest order index.
func (s *Service) Create(ctx context.Context, req types.CreateMarketingItemRequest) (types.MarketingItem, error) {
	if err := s.validate.Struct(req); err != nil {
		return types.MarketingItem{}, err
	}

	max, found, err := s.storage.MaxMarketingOrder(ctx)
	if err != nil {
		return types.MarketingItem{}, err
	}
	next := 0
	if found {
		next = max + 1
	}

	item, err := s.storage.CreateMarketingItem(ctx, types.MarketingItem{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		OrderIndex:  next,
	})
	if err != nil {
		return types.MarketingItem{}, err
	}

	s.publish(types.ActionCreated, &item, item.ID)
	return item, nil
}

func (s *Service) Update(ctx context.Context, id int64, patch types.MarketingItemPatch) (types.MarketingItem, error) {
	if err := s.validate.Struct(patch); err != nil {
		return types.MarketingItem{}, err
	}

	item, err := s.storage.UpdateMarketingItem(ctx, id, patch)
	if err != nil {
		return types.MarketingItem{}, err
	}

	if !patch.Empty() {
		s.publish(types.ActionUpdated, &item, id)
	}
	return item, nil
}

// Delete removes the row only. The image object is left for the orphan
// sweeper.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.storage.DeleteMarketingItem(ctx, id); err != nil {
		return err
	}
	s.publish(types.ActionDeleted, nil, id)
	return nil
}

// UploadImage stores a marketing image and returns its public URL. The
// caller creates or updates the item with that URL.
func (s *Service) UploadImage(ctx context.Context, upload mediatypes.Upload) (string, error) {
	upload.ContentType = mediatypes.NormalizeContentType(upload.ContentType)
	if err := mediatypes.ValidateKind(types.MediaImage, upload.ContentType); err != nil {
		return "", err
	}

	key := media.MarketingObjectKey(upload.Name, upload.ContentType, s.now())
	if err := s.objects.PutObject(ctx, key, upload); err != nil {
		return "", err
	}

	s.logger.Info("marketing image uploaded", slog.String("path", key))
	return s.objects.PublicURL(key), nil
}

func (s *Service) publish(action types.ChangeAction, item *types.MarketingItem, id int64) {
	s.publisher.PublishContentChanged(types.ContentChange{
		Resource: types.ResourceMarketing,
		Action:   action,
		ID:       strconv.FormatInt(id, 10),
		Item:     item,
	})
}
