package media

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/princekumarofficial/portfolio-service/internal/types"
	mediatypes "github.com/princekumarofficial/portfolio-service/internal/types/media"
	"github.com/princekumarofficial/portfolio-service/internal/utils/request"
	"github.com/princekumarofficial/portfolio-service/internal/utils/response"
)

type ContentService interface {
	UploadFile(ctx context.Context, projectID int64, kind types.MediaKind, upload mediatypes.Upload) (types.Media, error)
	DeleteFile(ctx context.Context, mediaID, path string) (types.DeleteResult, error)
	GetProfileImage(ctx context.Context) (string, error)
	UploadProfileImage(ctx context.Context, upload mediatypes.Upload) (types.ProfileSetting, error)
}

type MarketingUploader interface {
	UploadImage(ctx context.Context, upload mediatypes.Upload) (string, error)
}

type MediaHandlers struct {
	content     ContentService
	marketing   MarketingUploader
	maxFileSize int64
}

type ProfileImageResponse struct {
	ProfileImageURL string `json:"profile_image_url"`
}

type ImageURLResponse struct {
	ImageURL string `json:"image_url"`
}

// NewMediaHandlers creates a new media handlers instance
func NewMediaHandlers(content ContentService, marketing MarketingUploader, maxFileSize int64) *MediaHandlers {
	return &MediaHandlers{
		content:     content,
		marketing:   marketing,
		maxFileSize: maxFileSize,
	}
}

// Upload stores one or more files for a project
// @Summary Upload project media
// @Description Files are stored one at a time in request order. A MIME type that does not match kind is rejected before anything is stored.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Project ID"
// @Param kind query string true "image or video"
// @Param file formData file true "File to upload (repeatable)"
// @Success 201 {object} response.Response{data=[]types.Media}
// @Failure 400 {object} response.Response "Bad request"
// @Failure 404 {object} response.Response "Project not found"
// @Failure 413 {object} response.Response "File too large"
// @Failure 500 {object} response.Response "Internal server error"
// @Router /projects/{id}/media [post]
func (h *MediaHandlers) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := request.PathInt64(r, "id")
		if err != nil {
			response.WriteError(w, err)
			return
		}

		kind, err := mediatypes.ParseKind(r.URL.Query().Get("kind"))
		if err != nil {
			response.WriteError(w, err)
			return
		}

		uploaded := []types.Media{}
		_, err = readUploads(r, h.maxFileSize, 0, func(upload mediatypes.Upload) error {
			m, err := h.content.UploadFile(r.Context(), projectID, kind, upload)
			if err != nil {
				return err
			}
			uploaded = append(uploaded, m)
			return nil
		})
		if err != nil {
			if len(uploaded) > 0 {
				slog.Warn("upload stopped part way",
					slog.Int64("project_id", projectID),
					slog.Int("stored", len(uploaded)),
					slog.String("error", err.Error()))
			}
			resp := response.ErrorResponse(err)
			resp.Data = uploaded
			response.WriteJSON(w, response.StatusFor(err), resp)
			return
		}

		response.WriteJSON(w, http.StatusCreated, response.RequestOK("Files uploaded successfully", uploaded))
	}
}

// Delete removes a media file
// @Summary Delete project media
// @Description The row is always removed when the call succeeds; outcome reports whether the stored object went with it.
// @Tags media
// @Produce json
// @Param id path string true "Media ID"
// @Param path query string false "Object key of the media row; rejected when it does not match"
// @Success 200 {object} response.Response{data=types.DeleteResult}
// @Failure 400 {object} response.Response "Path does not match the media row"
// @Failure 404 {object} response.Response "Media not found"
// @Failure 500 {object} response.Response "Internal server error"
// @Router /media/{id} [delete]
func (h *MediaHandlers) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.content.DeleteFile(r.Context(), r.PathValue("id"), r.URL.Query().Get("path"))
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Media deleted", result))
	}
}

// GetProfileImage returns the profile image URL
// @Summary Get profile image
// @Tags profile
// @Produce json
// @Success 200 {object} response.Response{data=ProfileImageResponse}
// @Router /profile/image [get]
func (h *MediaHandlers) GetProfileImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url, err := h.content.GetProfileImage(r.Context())
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Profile image retrieved", ProfileImageResponse{ProfileImageURL: url}))
	}
}

// UploadProfileImage replaces the profile image
// @Summary Replace profile image
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 200 {object} response.Response{data=types.ProfileSetting}
// @Failure 400 {object} response.Response "Bad request"
// @Failure 413 {object} response.Response "File too large"
// @Router /profile/image [put]
func (h *MediaHandlers) UploadProfileImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var setting types.ProfileSetting
		_, err := readUploads(r, h.maxFileSize, 1, func(upload mediatypes.Upload) error {
			ps, err := h.content.UploadProfileImage(r.Context(), upload)
			setting = ps
			return err
		})
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Profile image updated", setting))
	}
}

// UploadMarketingImage stores a marketing image and returns its URL
// @Summary Upload marketing image
// @Tags marketing
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 201 {object} response.Response{data=ImageURLResponse}
// @Failure 400 {object} response.Response "Bad request"
// @Failure 413 {object} response.Response "File too large"
// @Router /marketing/images [post]
func (h *MediaHandlers) UploadMarketingImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var url string
		_, err := readUploads(r, h.maxFileSize, 1, func(upload mediatypes.Upload) error {
			u, err := h.marketing.UploadImage(r.Context(), upload)
			url = u
			return err
		})
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusCreated, response.RequestOK("Image uploaded", ImageURLResponse{ImageURL: url}))
	}
}
