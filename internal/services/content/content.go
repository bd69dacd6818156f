// Package content is the repository for projects, project media and the
// profile image. It writes rows through storage.Storage and files through
// media.ObjectStore; the two are never wrapped in a transaction.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/princekumarofficial/portfolio-service/internal/events"
	"github.com/princekumarofficial/portfolio-service/internal/services/media"
	"github.com/princekumarofficial/portfolio-service/internal/storage"
	"github.com/princekumarofficial/portfolio-service/internal/types"
	mediatypes "github.com/princekumarofficial/portfolio-service/internal/types/media"
)

var ErrMissingProjectID = fmt.Errorf("%w: project id is required", types.ErrInvalidInput)

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
		logger:    logger.With(slog.String("component", "content")),
		validate:  validator.New(),
		now:       time.Now,
	}
}

func assemble(row types.ProjectRow, files []types.Media) types.Project {
	if files == nil {
		files = []types.Media{}
	}
	return types.Project{
		ID:           row.ID,
		Title:        row.Title,
		Category:     row.Category,
		Description:  row.Description,
		Tools:        row.Tools,
		ThumbnailURL: row.ThumbnailURL,
		ExternalURL:  row.ExternalURL,
		Media:        files,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

// ListProjects returns every project, newest first, with its media in
// upload order.
func (s *Service) ListProjects(ctx context.Context) ([]types.Project, error) {
	rows, err := s.storage.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	all, err := s.storage.ListMedia(ctx)
	if err != nil {
		return nil, err
	}

	byProject := make(map[int64][]types.Media, len(rows))
	for _, m := range all {
		byProject[m.ProjectID] = append(byProject[m.ProjectID], m)
	}

	projects := make([]types.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, assemble(row, byProject[row.ID]))
	}
	return projects, nil
}

func (s *Service) GetProject(ctx context.Context, id int64) (types.Project, error) {
	row, err := s.storage.GetProject(ctx, id)
	if err != nil {
		return types.Project{}, err
	}

	files, err := s.storage.ListMediaByProject(ctx, id)
	if err != nil {
		return types.Project{}, err
	}
	return assemble(row, files), nil
}

// CreateProject is only reachable from the seed command.
func (s *Service) CreateProject(ctx context.Context, req types.CreateProjectRequest) (types.Project, error) {
	if err := s.validate.Struct(req); err != nil {
		return types.Project{}, err
	}

	row, err := s.storage.CreateProject(ctx, types.ProjectRow{
		Title:        req.Title,
		Category:     req.Category,
		Description:  req.Description,
		Tools:        req.Tools,
		ThumbnailURL: req.ThumbnailURL,
		ExternalURL:  req.ExternalURL,
	})
	if err != nil {
		return types.Project{}, err
	}

	project := assemble(row, nil)
	s.publish(types.ResourceProject, types.ActionCreated, row.ID, func(c *types.ContentChange) {
		c.Project = &project
	})
	return project, nil
}

func (s *Service) UpdateProject(ctx context.Context, id int64, patch types.ProjectPatch) (types.Project, error) {
	if id <= 0 {
		return types.Project{}, ErrMissingProjectID
	}
	if err := s.validate.Struct(patch); err != nil {
		return types.Project{}, err
	}

	if _, err := s.storage.UpdateProject(ctx, id, patch); err != nil {
		return types.Project{}, err
	}

	project, err := s.GetProject(ctx, id)
	if err != nil {
		return types.Project{}, err
	}

	if !patch.Empty() {
		s.publish(types.ResourceProject, types.ActionUpdated, id, func(c *types.ContentChange) {
			c.Project = &project
		})
	}
	return project, nil
}

// DeleteProject removes every media object of the project, then the project
// row. Object failures are collected into the result; a row failure is
// returned as an error.
func (s *Service) DeleteProject(ctx context.Context, id int64) (types.DeleteResult, error) {
	if id <= 0 {
		return types.DeleteResult{}, ErrMissingProjectID
	}

	if _, err := s.storage.GetProject(ctx, id); err != nil {
		return types.DeleteResult{}, err
	}

	files, err := s.storage.ListMediaByProject(ctx, id)
	if err != nil {
		return types.DeleteResult{}, err
	}

	var result types.DeleteResult
	for _, m := range files {
		if err := s.objects.RemoveObject(ctx, m.FilePath); err != nil {
			s.logger.Warn("failed to remove project media object",
				slog.Int64("project_id", id),
				slog.String("path", m.FilePath),
				slog.String("error", err.Error()))
			result.FailedPaths = append(result.FailedPaths, m.FilePath)
			result.StorageErrors = append(result.StorageErrors, err.Error())
			continue
		}
		result.FilesRemoved++
	}

	if err := s.storage.DeleteProject(ctx, id); err != nil {
		return types.DeleteResult{}, fmt.Errorf("failed to delete project %d: %w", id, err)
	}

	result.Outcome = outcome(len(result.FailedPaths) == 0)
	s.logger.Info("project deleted",
		slog.Int64("project_id", id),
		slog.String("outcome", string(result.Outcome)),
		slog.Int("files_removed", result.FilesRemoved))

	s.publish(types.ResourceProject, types.ActionDeleted, id, nil)
	return result, nil
}

// UploadFile stores one file under the project and records it. The MIME type
// is checked before anything is written.
func (s *Service) UploadFile(ctx context.Context, projectID int64, kind types.MediaKind, upload mediatypes.Upload) (types.Media, error) {
	if projectID <= 0 {
		return types.Media{}, ErrMissingProjectID
	}
	upload.ContentType = mediatypes.NormalizeContentType(upload.ContentType)
	if err := mediatypes.ValidateKind(kind, upload.ContentType); err != nil {
		return types.Media{}, err
	}

	if _, err := s.storage.GetProject(ctx, projectID); err != nil {
		return types.Media{}, err
	}

	key := media.ProjectObjectKey(projectID, upload.Name, upload.ContentType, s.now())
	if err := s.objects.PutObject(ctx, key, upload); err != nil {
		return types.Media{}, err
	}

	m, err := s.storage.CreateMedia(ctx, types.Media{
		ProjectID: projectID,
		Name:      upload.Name,
		Kind:      mediatypes.KindFromContentType(upload.ContentType),
		FilePath:  key,
		URL:       s.objects.PublicURL(key),
	})
	if err != nil {
		s.logger.Error("media row insert failed after upload, object left orphaned",
			slog.String("path", key),
			slog.String("error", err.Error()))
		return types.Media{}, err
	}

	s.publish(types.ResourceMedia, types.ActionCreated, 0, func(c *types.ContentChange) {
		c.ID = m.ID
		c.ProjectID = projectID
		c.Media = &m
	})
	return m, nil
}

// UploadFiles uploads one file at a time in order and stops at the first
// failure. Media stored before the failure are returned with the error.
func (s *Service) UploadFiles(ctx context.Context, projectID int64, kind types.MediaKind, uploads []mediatypes.Upload) ([]types.Media, error) {
	out := make([]types.Media, 0, len(uploads))
	for _, upload := range uploads {
		m, err := s.UploadFile(ctx, projectID, kind, upload)
		if err != nil {
			return out, fmt.Errorf("%s: %w", upload.Name, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// DeleteFile removes the object best-effort and then the row. path may be
// empty, in which case it is taken from the row; when given it must match
// the row's object key.
func (s *Service) DeleteFile(ctx context.Context, mediaID, path string) (types.DeleteResult, error) {
	if _, err := uuid.Parse(mediaID); err != nil {
		return types.DeleteResult{}, fmt.Errorf("media %q: %w", mediaID, storage.ErrNotFound)
	}

	m, err := s.storage.GetMedia(ctx, mediaID)
	if err != nil {
		return types.DeleteResult{}, err
	}
	if path != "" && path != m.FilePath {
		return types.DeleteResult{}, fmt.Errorf("%w: path %q does not belong to media %s", types.ErrInvalidInput, path, mediaID)
	}
	path = m.FilePath

	var result types.DeleteResult
	if err := s.objects.RemoveObject(ctx, path); err != nil {
		s.logger.Warn("failed to remove media object",
			slog.String("media_id", mediaID),
			slog.String("path", path),
			slog.String("error", err.Error()))
		result.FailedPaths = []string{path}
		result.StorageErrors = []string{err.Error()}
	} else {
		result.FilesRemoved = 1
	}

	if err := s.storage.DeleteMedia(ctx, mediaID); err != nil {
		return types.DeleteResult{}, err
	}

	result.Outcome = outcome(len(result.FailedPaths) == 0)
	s.publish(types.ResourceMedia, types.ActionDeleted, 0, func(c *types.ContentChange) {
		c.ID = mediaID
		c.ProjectID = m.ProjectID
	})
	return result, nil
}

// GetProfileImage returns the current profile image URL, or "" when none has
// been uploaded.
func (s *Service) GetProfileImage(ctx context.Context) (string, error) {
	ps, err := s.storage.GetProfileSetting(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return ps.ProfileImageURL, nil
}

// UploadProfileImage replaces the singleton profile image. The previous
// object is removed first and a failure there does not stop the upload.
func (s *Service) UploadProfileImage(ctx context.Context, upload mediatypes.Upload) (types.ProfileSetting, error) {
	upload.ContentType = mediatypes.NormalizeContentType(upload.ContentType)
	if err := mediatypes.ValidateKind(types.MediaImage, upload.ContentType); err != nil {
		return types.ProfileSetting{}, err
	}

	previous, err := s.GetProfileImage(ctx)
	if err != nil {
		return types.ProfileSetting{}, err
	}
	if key, ok := s.objects.KeyFromURL(previous); ok {
		if err := s.objects.RemoveObject(ctx, key); err != nil {
			s.logger.Warn("failed to remove previous profile image",
				slog.String("path", key),
				slog.String("error", err.Error()))
		}
	}

	key := media.ProfileObjectKey(upload.Name, upload.ContentType, s.now())
	if err := s.objects.PutObject(ctx, key, upload); err != nil {
		return types.ProfileSetting{}, err
	}

	ps, err := s.storage.UpsertProfileSetting(ctx, s.objects.PublicURL(key))
	if err != nil {
		return types.ProfileSetting{}, err
	}

	s.publish(types.ResourceProfile, types.ActionUpdated, types.ProfileSettingID, nil)
	return ps, nil
}

func (s *Service) publish(resource types.Resource, action types.ChangeAction, id int64, fill func(*types.ContentChange)) {
	change := types.ContentChange{
		Resource: resource,
		Action:   action,
		ID:       strconv.FormatInt(id, 10),
	}
	if fill != nil {
		fill(&change)
	}
	s.publisher.PublishContentChanged(change)
}

func outcome(full bool) types.DeleteOutcome {
	if full {
		return types.DeletedFully
	}
	return types.DeletedMetadataOnly
}
