// Package memdb is an in-process row store for local runs and tests. It keeps
// the same ordering and referential rules as the Postgres store.
package memdb

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"github.com/princekumarofficial/portfolio-service/internal/storage"
	"github.com/princekumarofficial/portfolio-service/internal/types"
)

const (
	tableProjects  = "projects"
	tableMedia     = "project_media"
	tableMarketing = "marketing_items"
	tableProfile   = "profile_settings"
	tableContact   = "contact_messages"

	PK               = "id"
	ProjectForeignPK = "project_id"
)

func schema() *memdb.DBSchema {
	intPK := func(field string) map[string]*memdb.IndexSchema {
		return map[string]*memdb.IndexSchema{
			PK: {
				Name:    PK,
				Unique:  true,
				Indexer: &memdb.IntFieldIndex{Field: field},
			},
		}
	}

	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableProjects: {
				Name:    tableProjects,
				Indexes: intPK("ID"),
			},
			tableMedia: {
				Name: tableMedia,
				Indexes: map[string]*memdb.IndexSchema{
					PK: {
						Name:    PK,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					ProjectForeignPK: {
						Name:    ProjectForeignPK,
						Indexer: &memdb.IntFieldIndex{Field: "ProjectID"},
					},
				},
			},
			tableMarketing: {
				Name:    tableMarketing,
				Indexes: intPK("ID"),
			},
			tableProfile: {
				Name:    tableProfile,
				Indexes: intPK("ID"),
			},
			tableContact: {
				Name: tableContact,
				Indexes: map[string]*memdb.IndexSchema{
					PK: {
						Name:    PK,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
				},
			},
		},
	}
}

// Store keeps rows as pointers inside go-memdb. Rows are never mutated in
// place; updates insert a fresh copy.
type Store struct {
	db  *memdb.MemDB
	now func() time.Time

	mu           sync.Mutex
	last         time.Time
	projectSeq   int64
	marketingSeq int64
}

func New() (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("failed to create memdb: %w", err)
	}
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *Store) Close() error { return nil }

// stamp returns a strictly increasing timestamp so rows created within the
// same clock tick keep their insertion order.
func (s *Store) stamp() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.now()
	if !t.After(s.last) {
		t = s.last.Add(time.Nanosecond)
	}
	s.last = t
	return t
}

func (s *Store) nextProjectID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectSeq++
	return s.projectSeq
}

func (s *Store) nextMarketingID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marketingSeq++
	return s.marketingSeq
}

func copyProject(row *types.ProjectRow) types.ProjectRow {
	out := *row
	out.Tools = append([]string{}, row.Tools...)
	if row.ExternalURL != nil {
		v := *row.ExternalURL
		out.ExternalURL = &v
	}
	return out
}

func (s *Store) ListProjects(ctx context.Context) ([]types.ProjectRow, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableProjects, PK)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}

	var rows []types.ProjectRow
	for obj := it.Next(); obj != nil; obj = it.Next() {
		rows = append(rows, copyProject(obj.(*types.ProjectRow)))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
	return rows, nil
}

func (s *Store) getProject(txn *memdb.Txn, id int64) (*types.ProjectRow, error) {
	obj, err := txn.First(tableProjects, PK, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("project: %w", storage.ErrNotFound)
	}
	return obj.(*types.ProjectRow), nil
}

func (s *Store) GetProject(ctx context.Context, id int64) (types.ProjectRow, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	row, err := s.getProject(txn, id)
	if err != nil {
		return types.ProjectRow{}, err
	}
	return copyProject(row), nil
}

func (s *Store) CreateProject(ctx context.Context, in types.ProjectRow) (types.ProjectRow, error) {
	row := copyProject(&in)
	row.ID = s.nextProjectID()
	row.CreatedAt = s.stamp()
	row.UpdatedAt = row.CreatedAt

	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(tableProjects, &row); err != nil {
		return types.ProjectRow{}, fmt.Errorf("failed to insert project: %w", err)
	}
	txn.Commit()

	return copyProject(&row), nil
}

func (s *Store) UpdateProject(ctx context.Context, id int64, patch types.ProjectPatch) (types.ProjectRow, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	current, err := s.getProject(txn, id)
	if err != nil {
		return types.ProjectRow{}, err
	}
	if patch.Empty() {
		return copyProject(current), nil
	}

	row := copyProject(current)
	patch.Apply(&row)
	row.UpdatedAt = s.stamp()

	if err := txn.Insert(tableProjects, &row); err != nil {
		return types.ProjectRow{}, fmt.Errorf("failed to update project: %w", err)
	}
	txn.Commit()

	return copyProject(&row), nil
}

func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	row, err := s.getProject(txn, id)
	if err != nil {
		return err
	}
	if err := txn.Delete(tableProjects, row); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if _, err := txn.DeleteAll(tableMedia, ProjectForeignPK, id); err != nil {
		return fmt.Errorf("failed to delete project media: %w", err)
	}
	txn.Commit()
	return nil
}

func (s *Store) collectMedia(it memdb.ResultIterator) []types.Media {
	var media []types.Media
	for obj := it.Next(); obj != nil; obj = it.Next() {
		media = append(media, *obj.(*types.Media))
	}
	sort.SliceStable(media, func(i, j int) bool {
		return media[i].CreatedAt.Before(media[j].CreatedAt)
	})
	return media
}

func (s *Store) ListMedia(ctx context.Context) ([]types.Media, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableMedia, PK)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch media: %w", err)
	}
	return s.collectMedia(it), nil
}

func (s *Store) ListMediaByProject(ctx context.Context, projectID int64) ([]types.Media, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableMedia, ProjectForeignPK, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch media: %w", err)
	}
	return s.collectMedia(it), nil
}

func (s *Store) GetMedia(ctx context.Context, id string) (types.Media, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(tableMedia, PK, id)
	if err != nil {
		return types.Media{}, fmt.Errorf("failed to fetch media: %w", err)
	}
	if obj == nil {
		return types.Media{}, fmt.Errorf("media: %w", storage.ErrNotFound)
	}
	return *obj.(*types.Media), nil
}

func (s *Store) CreateMedia(ctx context.Context, in types.Media) (types.Media, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	if _, err := s.getProject(txn, in.ProjectID); err != nil {
		return types.Media{}, fmt.Errorf("project %d: %w", in.ProjectID, err)
	}

	m := in
	m.ID = uuid.NewString()
	m.CreatedAt = s.stamp()
	if err := txn.Insert(tableMedia, &m); err != nil {
		return types.Media{}, fmt.Errorf("failed to insert media: %w", err)
	}
	txn.Commit()
	return m, nil
}

func (s *Store) DeleteMedia(ctx context.Context, id string) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	obj, err := txn.First(tableMedia, PK, id)
	if err != nil {
		return fmt.Errorf("failed to fetch media: %w", err)
	}
	if obj == nil {
		return fmt.Errorf("media: %w", storage.ErrNotFound)
	}
	if err := txn.Delete(tableMedia, obj); err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}
	txn.Commit()
	return nil
}

func (s *Store) ListMarketingItems(ctx context.Context) ([]types.MarketingItem, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableMarketing, PK)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch marketing items: %w", err)
	}

	var items []types.MarketingItem
	for obj := it.Next(); obj != nil; obj = it.Next() {
		items = append(items, *obj.(*types.MarketingItem))
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].OrderIndex != items[j].OrderIndex {
			return items[i].OrderIndex < items[j].OrderIndex
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (s *Store) getMarketingItem(txn *memdb.Txn, id int64) (*types.MarketingItem, error) {
	obj, err := txn.First(tableMarketing, PK, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch marketing item: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("marketing item: %w", storage.ErrNotFound)
	}
	return obj.(*types.MarketingItem), nil
}

func (s *Store) GetMarketingItem(ctx context.Context, id int64) (types.MarketingItem, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	item, err := s.getMarketingItem(txn, id)
	if err != nil {
		return types.MarketingItem{}, err
	}
	return *item, nil
}

func (s *Store) MaxMarketingOrder(ctx context.Context) (int, bool, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableMarketing, PK)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read max order index: %w", err)
	}

	max, found := 0, false
	for obj := it.Next(); obj != nil; obj = it.Next() {
		idx := obj.(*types.MarketingItem).OrderIndex
		if !found || idx > max {
			max, found = idx, true
		}
	}
	return max, found, nil
}

func (s *Store) CreateMarketingItem(ctx context.Context, in types.MarketingItem) (types.MarketingItem, error) {
	item := in
	item.ID = s.nextMarketingID()
	item.CreatedAt = s.stamp()
	item.UpdatedAt = item.CreatedAt

	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(tableMarketing, &item); err != nil {
		return types.MarketingItem{}, fmt.Errorf("failed to insert marketing item: %w", err)
	}
	txn.Commit()
	return item, nil
}

func (s *Store) UpdateMarketingItem(ctx context.Context, id int64, patch types.MarketingItemPatch) (types.MarketingItem, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	current, err := s.getMarketingItem(txn, id)
	if err != nil {
		return types.MarketingItem{}, err
	}
	if patch.Empty() {
		return *current, nil
	}

	item := *current
	patch.Apply(&item)
	item.UpdatedAt = s.stamp()
	if err := txn.Insert(tableMarketing, &item); err != nil {
		return types.MarketingItem{}, fmt.Errorf("failed to update marketing item: %w", err)
	}
	txn.Commit()
	return item, nil
}

func (s *Store) DeleteMarketingItem(ctx context.Context, id int64) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	item, err := s.getMarketingItem(txn, id)
	if err != nil {
		return err
	}
	if err := txn.Delete(tableMarketing, item); err != nil {
		return fmt.Errorf("failed to delete marketing item: %w", err)
	}
	txn.Commit()
	return nil
}

func (s *Store) GetProfileSetting(ctx context.Context) (types.ProfileSetting, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(tableProfile, PK, types.ProfileSettingID)
	if err != nil {
		return types.ProfileSetting{}, fmt.Errorf("failed to fetch profile setting: %w", err)
	}
	if obj == nil {
		return types.ProfileSetting{}, fmt.Errorf("profile setting: %w", storage.ErrNotFound)
	}
	return *obj.(*types.ProfileSetting), nil
}

func (s *Store) UpsertProfileSetting(ctx context.Context, imageURL string) (types.ProfileSetting, error) {
	ps := &types.ProfileSetting{
		ID:              types.ProfileSettingID,
		ProfileImageURL: imageURL,
		UpdatedAt:       s.stamp(),
	}

	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(tableProfile, ps); err != nil {
		return types.ProfileSetting{}, fmt.Errorf("failed to upsert profile setting: %w", err)
	}
	txn.Commit()
	return *ps, nil
}

func (s *Store) CreateContactMessage(ctx context.Context, in types.ContactMessage) (types.ContactMessage, error) {
	msg := in
	msg.ID = uuid.NewString()
	msg.CreatedAt = s.stamp()

	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(tableContact, &msg); err != nil {
		return types.ContactMessage{}, fmt.Errorf("failed to insert contact message: %w", err)
	}
	txn.Commit()
	return msg, nil
}

var _ storage.Storage = (*Store)(nil)
