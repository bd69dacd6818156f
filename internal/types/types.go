package types

import (
	"errors"
	"time"
)

// ErrInvalidInput marks errors caused by a bad request rather than a failing
// dependency.
var ErrInvalidInput = errors.New("invalid input")

// Project is a portfolio entry with its uploaded media.
type Project struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Tools        []string  `json:"tools"`
	ThumbnailURL string    `json:"thumbnail_url"`
	ExternalURL  *string   `json:"external_url,omitempty"`
	Media        []Media   `json:"media"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProjectRow is the persisted form of a project, without media.
type ProjectRow struct {
	ID           int64
	Title        string
	Category     string
	Description  string
	Tools        []string
	ThumbnailURL string
	ExternalURL  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Media is a file uploaded for a project.
type Media struct {
	ID        string    `json:"id"`
	ProjectID int64     `json:"project_id"`
	Name      string    `json:"name"`
	Kind      MediaKind `json:"kind"`
	FilePath  string    `json:"file_path"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

type MarketingItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfileSettingID is the key of the singleton profile row.
const ProfileSettingID = 1

type ProfileSetting struct {
	ID              int       `json:"id"`
	ProfileImageURL string    `json:"profile_image_url"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateProjectRequest is used by the seeding path; projects are not
// created through the admin API.
type CreateProjectRequest struct {
	Title        string   `json:"title" validate:"required"`
	Category     string   `json:"category" validate:"required"`
	Description  string   `json:"description"`
	Tools        []string `json:"tools"`
	ThumbnailURL string   `json:"thumbnail_url"`
	ExternalURL  *string  `json:"external_url,omitempty"`
}

// ProjectPatch carries the fields of a partial project update. Nil fields
// are left untouched.
type ProjectPatch struct {
	Title        *string   `json:"title,omitempty" validate:"omitempty,min=1"`
	Category     *string   `json:"category,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Tools        *[]string `json:"tools,omitempty"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	// ExternalURL set to "" clears the link.
	ExternalURL  *string   `json:"external_url,omitempty"`
}

func (p ProjectPatch) Empty() bool {
	return p.Title == nil && p.Category == nil && p.Description == nil &&
		p.Tools == nil && p.ThumbnailURL == nil && p.ExternalURL == nil
}

// Apply writes the non-nil fields of p onto row.
func (p ProjectPatch) Apply(row *ProjectRow) {
	if p.Title != nil {
		row.Title = *p.Title
	}
	if p.Category != nil {
		row.Category = *p.Category
	}
	if p.Description != nil {
		row.Description = *p.Description
	}
	if p.Tools != nil {
		row.Tools = append([]string(nil), (*p.Tools)...)
	}
	if p.ThumbnailURL != nil {
		row.ThumbnailURL = *p.ThumbnailURL
	}
	if p.ExternalURL != nil {
		row.ExternalURL = nil
		if v := *p.ExternalURL; v != "" {
			row.ExternalURL = &v
		}
	}
}

type CreateMarketingItemRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" validate:"required,url"`
}

type MarketingItemPatch struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
	OrderIndex  *int    `json:"order_index,omitempty"`
}

func (p MarketingItemPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.ImageURL == nil && p.OrderIndex == nil
}

func (p MarketingItemPatch) Apply(item *MarketingItem) {
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.ImageURL != nil {
		item.ImageURL = *p.ImageURL
	}
	if p.OrderIndex != nil {
		item.OrderIndex = *p.OrderIndex
	}
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

// DeleteOutcome records how far a two-step delete got.
type DeleteOutcome string

const (
	DeletedFully        DeleteOutcome = "deleted_fully"
	DeletedMetadataOnly DeleteOutcome = "deleted_metadata_only"
)

// DeleteResult is returned by deletes that span the row store and the
// object store. The row is always gone when a result is returned.
type DeleteResult struct {
	Outcome       DeleteOutcome `json:"outcome"`
	FilesRemoved  int           `json:"files_removed"`
	FailedPaths   []string      `json:"failed_paths,omitempty"`
	StorageErrors []string      `json:"storage_errors,omitempty"`
}
