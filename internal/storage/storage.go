package storage

import (
	"context"
	"errors"

	"github.com/princekumarofficial/portfolio-service/internal/types"
)

// ErrNotFound is returned when a row does not exist, including a missing
// parent row on insert.
var ErrNotFound = errors.New("not found")

// Storage is the row store behind the content and marketing repositories.
type Storage interface {
	// ListProjects returns projects newest first.
	ListProjects(ctx context.Context) ([]types.ProjectRow, error)
	GetProject(ctx context.Context, id int64) (types.ProjectRow, error)
	CreateProject(ctx context.Context, row types.ProjectRow) (types.ProjectRow, error)
	UpdateProject(ctx context.Context, id int64, patch types.ProjectPatch) (types.ProjectRow, error)
	// DeleteProject removes the project and, by cascade, its media rows.
	DeleteProject(ctx context.Context, id int64) error

	// ListMedia returns every media row in insertion order.
	ListMedia(ctx context.Context) ([]types.Media, error)
	ListMediaByProject(ctx context.Context, projectID int64) ([]types.Media, error)
	GetMedia(ctx context.Context, id string) (types.Media, error)
	CreateMedia(ctx context.Context, m types.Media) (types.Media, error)
	DeleteMedia(ctx context.Context, id string) error

	// ListMarketingItems returns items by ascending order index.
	ListMarketingItems(ctx context.Context) ([]types.MarketingItem, error)
	GetMarketingItem(ctx context.Context, id int64) (types.MarketingItem, error)
	// MaxMarketingOrder reports the highest order index, or false when
	// there are no items.
	MaxMarketingOrder(ctx context.Context) (int, bool, error)
	CreateMarketingItem(ctx context.Context, item types.MarketingItem) (types.MarketingItem, error)
	UpdateMarketingItem(ctx context.Context, id int64, patch types.MarketingItemPatch) (types.MarketingItem, error)
	DeleteMarketingItem(ctx context.Context, id int64) error

	GetProfileSetting(ctx context.Context) (types.ProfileSetting, error)
	UpsertProfileSetting(ctx context.Context, imageURL string) (types.ProfileSetting, error)

	CreateContactMessage(ctx context.Context, msg types.ContactMessage) (types.ContactMessage, error)

	Close() error
}
