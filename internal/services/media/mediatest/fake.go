// Package mediatest provides an in-memory ObjectStore for tests.
package mediatest

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/princekumarofficial/portfolio-service/internal/services/media"
	mediatypes "github.com/princekumarofficial/portfolio-service/internal/types/media"
)

const BaseURL = "http://objects.test/portfolio-media"

var ErrInjected = errors.New("injected object store failure")

type Object struct {
	Data         []byte
	ContentType  string
	LastModified time.Time
}

// Store records every call. Set FailPut or FailRemove to make the matching
// operation return ErrInjected.
type Store struct {
	mu      sync.Mutex
	objects map[string]Object

	Now        func() time.Time
	FailPut    bool
	FailRemove bool
	Puts       []string
	Removes    []string
}

func New() *Store {
	return &Store{
		objects: make(map[string]Object),
		Now:     time.Now,
	}
}

func (s *Store) PutObject(ctx context.Context, key string, upload mediatypes.Upload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Puts = append(s.Puts, key)
	if s.FailPut {
		return ErrInjected
	}

	data, err := io.ReadAll(upload.Body)
	if err != nil {
		return err
	}
	s.objects[key] = Object{Data: data, ContentType: upload.ContentType, LastModified: s.Now()}
	return nil
}

func (s *Store) RemoveObject(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Removes = append(s.Removes, key)
	if s.FailRemove {
		return ErrInjected
	}
	delete(s.objects, key)
	return nil
}

func (s *Store) ListObjects(ctx context.Context, prefix string) ([]media.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []media.ObjectInfo
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, media.ObjectInfo{Key: key, Size: int64(len(obj.Data)), LastModified: obj.LastModified})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *Store) PublicURL(key string) string {
	return media.PublicURL(BaseURL, key)
}

func (s *Store) KeyFromURL(url string) (string, bool) {
	return media.KeyFromURL(BaseURL, url)
}

// Seed places an object directly, bypassing call recording.
func (s *Store) Seed(key string, lastModified time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = Object{LastModified: lastModified}
}

func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func (s *Store) PutCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Puts)
}

var _ media.ObjectStore = (*Store)(nil)
