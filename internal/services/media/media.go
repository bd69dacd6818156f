package media

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/princekumarofficial/portfolio-service/internal/config"
	mediatypes "github.com/princekumarofficial/portfolio-service/internal/types/media"
)

// Object key prefixes, one per owner.
const (
	PrefixProjects  = "projects/"
	PrefixMarketing = "marketing/"
	PrefixProfile   = "profile/"
)

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStore is the object side of the persistence client.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, upload mediatypes.Upload) error
	RemoveObject(ctx context.Context, key string) error
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	PublicURL(key string) string
	// KeyFromURL reverses PublicURL. It reports false for URLs that do not
	// point into this store.
	KeyFromURL(url string) (string, bool)
}

type Service struct {
	client     *minio.Client
	bucketName string
	config     *config.Media
	baseURL    string
}

// NewService creates a new media service instance
func NewService(ctx context.Context, cfg *config.Config) (*Service, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKeyID, cfg.MinIO.SecretAccessKey, ""),
		Secure: cfg.MinIO.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	base := cfg.MinIO.PublicBaseURL
	if base == "" {
		base = client.EndpointURL().String() + "/" + cfg.MinIO.BucketName
	}

	service := &Service{
		client:     client,
		bucketName: cfg.MinIO.BucketName,
		config:     &cfg.Media,
		baseURL:    strings.TrimRight(base, "/"),
	}

	if err := service.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return service, nil
}

// ensureBucket creates the bucket if it doesn't exist
func (s *Service) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

func (s *Service) PutObject(ctx context.Context, key string, upload mediatypes.Upload) error {
	size := upload.Size
	if size <= 0 {
		size = -1
	}

	_, err := s.client.PutObject(ctx, s.bucketName, key, upload.Body, size, minio.PutObjectOptions{
		ContentType:  upload.ContentType,
		CacheControl: s.config.CacheControl,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (s *Service) RemoveObject(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// StatObject returns information about an object
func (s *Service) StatObject(ctx context.Context, key string) (ObjectInfo, error) {
	info, err := s.client.StatObject(ctx, s.bucketName, key, minio.StatObjectOptions{})
	if err != nil {
		return ObjectInfo{}, err
	}
	return ObjectInfo{Key: info.Key, Size: info.Size, LastModified: info.LastModified}, nil
}

func (s *Service) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	objectsCh := s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	for object := range objectsCh {
		if object.Err != nil {
			return nil, object.Err
		}
		objects = append(objects, ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
		})
	}

	return objects, nil
}

func (s *Service) PublicURL(key string) string {
	return PublicURL(s.baseURL, key)
}

func (s *Service) KeyFromURL(url string) (string, bool) {
	return KeyFromURL(s.baseURL, url)
}

// PublicURL joins base and key.
func PublicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

func KeyFromURL(base, url string) (string, bool) {
	prefix := strings.TrimRight(base, "/") + "/"
	if base == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	return key, key != ""
}

// ProjectObjectKey builds projects/{id}/{millis}-{random}.{ext}.
func ProjectObjectKey(projectID int64, filename, contentType string, now time.Time) string {
	return fmt.Sprintf("%s%d/%d-%s%s", PrefixProjects, projectID, now.UnixMilli(), randomSuffix(), extension(filename, contentType))
}

func MarketingObjectKey(filename, contentType string, now time.Time) string {
	return fmt.Sprintf("%smarketing-%d-%s%s", PrefixMarketing, now.UnixMilli(), randomSuffix(), extension(filename, contentType))
}

// ProfileObjectKey has no random part; the profile image is a singleton.
func ProfileObjectKey(filename, contentType string, now time.Time) string {
	return fmt.Sprintf("%sprofile-%d%s", PrefixProfile, now.UnixMilli(), extension(filename, contentType))
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// extension prefers the client's file name and falls back to the MIME type.
func extension(filename, contentType string) string {
	if ext := strings.ToLower(path.Ext(filename)); ext != "" && len(ext) <= 8 {
		return ext
	}
	if m := mimetype.Lookup(contentType); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
