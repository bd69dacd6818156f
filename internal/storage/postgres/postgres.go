package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lib/pq"
	"github.com/princekumarofficial/portfolio-service/internal/storage"
	"github.com/princekumarofficial/portfolio-service/internal/types"
)

// Postgres error codes.
const (
	fkViolation               = "23503"
	invalidTextRepresentation = "22P02"
)

type Postgres struct {
	Db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Connected to Postgres database")

	pg := &Postgres{Db: db}
	if err := pg.CreateTables(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pg, nil
}

func (p *Postgres) CreateTables(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS projects (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			tools TEXT[] NOT NULL DEFAULT '{}',
			thumbnail_url TEXT NOT NULL DEFAULT '',
			external_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS project_media (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			type VARCHAR(10) NOT NULL CHECK (type IN ('image', 'video')),
			file_path TEXT NOT NULL,
			file_url TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		`,
		`CREATE INDEX IF NOT EXISTS idx_project_media_project_id ON project_media(project_id);`,
		`
		CREATE TABLE IF NOT EXISTS marketing_items (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL,
			order_index INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS profile_settings (
			id INTEGER PRIMARY KEY,
			profile_image_url TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS contact_messages (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			message TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		`,
	}

	for _, q := range queries {
		if _, err := p.Db.ExecContext(ctx, q); err != nil {
			return err
		}
	}

	return nil
}

func (p *Postgres) Close() error {
	return p.Db.Close()
}

const projectColumns = `id, title, category, description, tools, thumbnail_url, external_url, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(s rowScanner) (types.ProjectRow, error) {
	var row types.ProjectRow
	var tools pq.StringArray
	err := s.Scan(&row.ID, &row.Title, &row.Category, &row.Description, &tools,
		&row.ThumbnailURL, &row.ExternalURL, &row.CreatedAt, &row.UpdatedAt)
	row.Tools = []string(tools)
	if row.Tools == nil {
		row.Tools = []string{}
	}
	return row, err
}

func (p *Postgres) ListProjects(ctx context.Context) ([]types.ProjectRow, error) {
	rows, err := p.Db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}
	defer rows.Close()

	var projects []types.ProjectRow
	for rows.Next() {
		row, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	return projects, nil
}

func (p *Postgres) GetProject(ctx context.Context, id int64) (types.ProjectRow, error) {
	row, err := scanProject(p.Db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		return row, notFound(err, "project")
	}
	return row, nil
}

func (p *Postgres) CreateProject(ctx context.Context, in types.ProjectRow) (types.ProjectRow, error) {
	query := `
	INSERT INTO projects (title, category, description, tools, thumbnail_url, external_url)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING ` + projectColumns

	tools := in.Tools
	if tools == nil {
		tools = []string{}
	}

	row, err := scanProject(p.Db.QueryRowContext(ctx, query,
		in.Title, in.Category, in.Description, pq.Array(tools), in.ThumbnailURL, in.ExternalURL))
	if err != nil {
		return row, fmt.Errorf("failed to insert project: %w", err)
	}
	return row, nil
}

func (p *Postgres) UpdateProject(ctx context.Context, id int64, patch types.ProjectPatch) (types.ProjectRow, error) {
	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Tools != nil {
		add("tools", pq.Array(*patch.Tools))
	}
	if patch.ThumbnailURL != nil {
		add("thumbnail_url", *patch.ThumbnailURL)
	}
	if patch.ExternalURL != nil {
		var link any
		if *patch.ExternalURL != "" {
			link = *patch.ExternalURL
		}
		add("external_url", link)
	}

	if len(sets) == 0 {
		return p.GetProject(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE projects SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), projectColumns)

	row, err := scanProject(p.Db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return row, notFound(err, "project")
	}
	return row, nil
}

func (p *Postgres) DeleteProject(ctx context.Context, id int64) error {
	res, err := p.Db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return requireAffected(res, "project")
}

const mediaColumns = `id, project_id, name, type, file_path, file_url, created_at`

func scanMedia(s rowScanner) (types.Media, error) {
	var m types.Media
	err := s.Scan(&m.ID, &m.ProjectID, &m.Name, &m.Kind, &m.FilePath, &m.URL, &m.CreatedAt)
	return m, err
}

func (p *Postgres) queryMedia(ctx context.Context, query string, args ...any) ([]types.Media, error) {
	rows, err := p.Db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch media: %w", err)
	}
	defer rows.Close()

	var media []types.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}
		media = append(media, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return media, nil
}

func (p *Postgres) ListMedia(ctx context.Context) ([]types.Media, error) {
	return p.queryMedia(ctx, `SELECT `+mediaColumns+` FROM project_media ORDER BY created_at ASC`)
}

func (p *Postgres) ListMediaByProject(ctx context.Context, projectID int64) ([]types.Media, error) {
	return p.queryMedia(ctx,
		`SELECT `+mediaColumns+` FROM project_media WHERE project_id = $1 ORDER BY created_at ASC`, projectID)
}

func (p *Postgres) GetMedia(ctx context.Context, id string) (types.Media, error) {
	m, err := scanMedia(p.Db.QueryRowContext(ctx,
		`SELECT `+mediaColumns+` FROM project_media WHERE id = $1`, id))
	if err != nil {
		return m, notFound(err, "media")
	}
	return m, nil
}

func (p *Postgres) CreateMedia(ctx context.Context, in types.Media) (types.Media, error) {
	query := `
	INSERT INTO project_media (project_id, name, type, file_path, file_url)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING ` + mediaColumns

	m, err := scanMedia(p.Db.QueryRowContext(ctx, query, in.ProjectID, in.Name, in.Kind, in.FilePath, in.URL))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == fkViolation {
			return m, fmt.Errorf("project %d: %w", in.ProjectID, storage.ErrNotFound)
		}
		return m, fmt.Errorf("failed to insert media: %w", err)
	}
	return m, nil
}

func (p *Postgres) DeleteMedia(ctx context.Context, id string) error {
	res, err := p.Db.ExecContext(ctx, `DELETE FROM project_media WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}
	return requireAffected(res, "media")
}

const marketingColumns = `id, title, description, image_url, order_index, created_at, updated_at`

func scanMarketingItem(s rowScanner) (types.MarketingItem, error) {
	var item types.MarketingItem
	err := s.Scan(&item.ID, &item.Title, &item.Description, &item.ImageURL,
		&item.OrderIndex, &item.CreatedAt, &item.UpdatedAt)
	return item, err
}

func (p *Postgres) ListMarketingItems(ctx context.Context) ([]types.MarketingItem, error) {
	rows, err := p.Db.QueryContext(ctx,
		`SELECT `+marketingColumns+` FROM marketing_items ORDER BY order_index ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch marketing items: %w", err)
	}
	defer rows.Close()

	var items []types.MarketingItem
	for rows.Next() {
		item, err := scanMarketingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan marketing item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return items, nil
}

func (p *Postgres) GetMarketingItem(ctx context.Context, id int64) (types.MarketingItem, error) {
	item, err := scanMarketingItem(p.Db.QueryRowContext(ctx,
		`SELECT `+marketingColumns+` FROM marketing_items WHERE id = $1`, id))
	if err != nil {
		return item, notFound(err, "marketing item")
	}
	return item, nil
}

func (p *Postgres) MaxMarketingOrder(ctx context.Context) (int, bool, error) {
	var max sql.NullInt64
	err := p.Db.QueryRowContext(ctx, `SELECT MAX(order_index) FROM marketing_items`).Scan(&max)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read max order index: %w", err)
	}
	return int(max.Int64), max.Valid, nil
}

func (p *Postgres) CreateMarketingItem(ctx context.Context, in types.MarketingItem) (types.MarketingItem, error) {
	query := `
	INSERT INTO marketing_items (title, description, image_url, order_index)
	VALUES ($1, $2, $3, $4)
	RETURNING ` + marketingColumns

	item, err := scanMarketingItem(p.Db.QueryRowContext(ctx, query,
		in.Title, in.Description, in.ImageURL, in.OrderIndex))
	if err != nil {
		return item, fmt.Errorf("failed to insert marketing item: %w", err)
	}
	return item, nil
}

func (p *Postgres) UpdateMarketingItem(ctx context.Context, id int64, patch types.MarketingItemPatch) (types.MarketingItem, error) {
	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	if patch.OrderIndex != nil {
		add("order_index", *patch.OrderIndex)
	}

	if len(sets) == 0 {
		return p.GetMarketingItem(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE marketing_items SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), marketingColumns)

	item, err := scanMarketingItem(p.Db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return item, notFound(err, "marketing item")
	}
	return item, nil
}

func (p *Postgres) DeleteMarketingItem(ctx context.Context, id int64) error {
	res, err := p.Db.ExecContext(ctx, `DELETE FROM marketing_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete marketing item: %w", err)
	}
	return requireAffected(res, "marketing item")
}

func (p *Postgres) GetProfileSetting(ctx context.Context) (types.ProfileSetting, error) {
	var ps types.ProfileSetting
	err := p.Db.QueryRowContext(ctx,
		`SELECT id, profile_image_url, updated_at FROM profile_settings WHERE id = $1`, types.ProfileSettingID).
		Scan(&ps.ID, &ps.ProfileImageURL, &ps.UpdatedAt)
	if err != nil {
		return ps, notFound(err, "profile setting")
	}
	return ps, nil
}

func (p *Postgres) UpsertProfileSetting(ctx context.Context, imageURL string) (types.ProfileSetting, error) {
	query := `
	INSERT INTO profile_settings (id, profile_image_url, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (id) DO UPDATE
	SET profile_image_url = EXCLUDED.profile_image_url, updated_at = EXCLUDED.updated_at
	RETURNING id, profile_image_url, updated_at
	`

	var ps types.ProfileSetting
	err := p.Db.QueryRowContext(ctx, query, types.ProfileSettingID, imageURL).
		Scan(&ps.ID, &ps.ProfileImageURL, &ps.UpdatedAt)
	if err != nil {
		return ps, fmt.Errorf("failed to upsert profile setting: %w", err)
	}
	return ps, nil
}

func (p *Postgres) CreateContactMessage(ctx context.Context, in types.ContactMessage) (types.ContactMessage, error) {
	query := `
	INSERT INTO contact_messages (name, email, message)
	VALUES ($1, $2, $3)
	RETURNING id, name, email, message, created_at
	`

	var msg types.ContactMessage
	err := p.Db.QueryRowContext(ctx, query, in.Name, in.Email, in.Message).
		Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Message, &msg.CreatedAt)
	if err != nil {
		return msg, fmt.Errorf("failed to insert contact message: %w", err)
	}
	return msg, nil
}

// notFound maps a missing row, or a malformed uuid key that cannot match
// one, to storage.ErrNotFound.
func notFound(err error, entity string) error {
	var pqErr *pq.Error
	if errors.Is(err, sql.ErrNoRows) || (errors.As(err, &pqErr) && pqErr.Code == invalidTextRepresentation) {
		return fmt.Errorf("%s: %w", entity, storage.ErrNotFound)
	}
	return fmt.Errorf("failed to fetch %s: %w", entity, err)
}

func requireAffected(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, storage.ErrNotFound)
	}
	return nil
}
