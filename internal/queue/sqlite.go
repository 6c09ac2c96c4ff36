package queue

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"chesspress/internal/content"
	"chesspress/internal/game"
	"chesspress/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

// sqliteStore is the durable Store. Scheduled posts surviving a restart
// are the crash-recovery signal: the driver just resumes polling them.
type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	st := &sqliteStore{db: db, log: log}
	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Close() error { return s.db.Close() }

func (s *sqliteStore) Create(ctx context.Context, p *content.Post) error {
	row, err := encodePost(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO posts(id, title, body, tags, media, targets, category, scheduled_at, status, game, metrics, results, created_at, updated_at)
		 VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		row.id, row.title, row.body, row.tags, row.media, row.targets, row.category,
		row.scheduledAt, row.status, row.game, row.metrics, row.results, row.createdAt, row.updatedAt,
	)
	return err
}

func (s *sqliteStore) Update(ctx context.Context, p *content.Post) error {
	row, err := encodePost(p)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE posts SET title=?, body=?, tags=?, media=?, targets=?, category=?, scheduled_at=?, status=?, game=?, metrics=?, results=?, updated_at=?
		 WHERE id=?`,
		row.title, row.body, row.tags, row.media, row.targets, row.category,
		row.scheduledAt, row.status, row.game, row.metrics, row.results, row.updatedAt, row.id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (s *sqliteStore) Get(ctx context.Context, id string) (*content.Post, error) {
	row := s.db.QueryRowContext(ctx, selectCols+` WHERE id=?`, id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return p, err
}

func (s *sqliteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *sqliteStore) ScheduledBetween(ctx context.Context, from, to time.Time) ([]*content.Post, error) {
	rows, err := s.db.QueryContext(ctx,
		selectCols+` WHERE status=? AND scheduled_at >= ? AND scheduled_at < ? ORDER BY scheduled_at ASC`,
		string(content.StatusScheduled), msOrZero(from), to.UnixMilli(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*content.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *sqliteStore) CountScheduledBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE status=? AND scheduled_at >= ? AND scheduled_at < ?`,
		string(content.StatusScheduled), msOrZero(from), to.UnixMilli(),
	).Scan(&n)
	return n, err
}

func msOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// ---- row mapping ----

const selectCols = `SELECT id, title, body, tags, media, targets, category, scheduled_at, status, game, metrics, results, created_at, updated_at FROM posts`

type postRow struct {
	id, title, body, category, status string
	tags, media, targets              string
	game, metrics, results            sql.NullString
	scheduledAt, createdAt, updatedAt int64
}

func encodePost(p *content.Post) (*postRow, error) {
	row := &postRow{
		id:        p.ID,
		title:     p.Title,
		body:      p.Body,
		category:  p.Category,
		status:    string(p.Status),
		createdAt: p.CreatedAt.UnixMilli(),
		updatedAt: p.UpdatedAt.UnixMilli(),
	}
	if !p.ScheduledAt.IsZero() {
		row.scheduledAt = p.ScheduledAt.UnixMilli()
	}
	var err error
	if row.tags, err = marshalJSON(p.Tags); err != nil {
		return nil, err
	}
	if row.media, err = marshalJSON(p.Media); err != nil {
		return nil, err
	}
	if row.targets, err = marshalJSON(p.Targets); err != nil {
		return nil, err
	}
	row.game = nullJSON(p.Game)
	if p.Metrics != nil {
		row.metrics = nullJSON(p.Metrics)
	}
	if p.Results != nil {
		row.results = nullJSON(p.Results)
	}
	return row, nil
}

func marshalJSON(v any) (string, error) {
	if v == nil {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	return string(b), err
}

func nullJSON(v any) sql.NullString {
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(r rowScanner) (*content.Post, error) {
	var row postRow
	if err := r.Scan(
		&row.id, &row.title, &row.body, &row.tags, &row.media, &row.targets, &row.category,
		&row.scheduledAt, &row.status, &row.game, &row.metrics, &row.results,
		&row.createdAt, &row.updatedAt,
	); err != nil {
		return nil, err
	}

	p := &content.Post{
		ID:        row.id,
		Title:     row.title,
		Body:      row.body,
		Category:  row.category,
		Status:    content.Status(row.status),
		CreatedAt: time.UnixMilli(row.createdAt).UTC(),
		UpdatedAt: time.UnixMilli(row.updatedAt).UTC(),
	}
	if row.scheduledAt > 0 {
		p.ScheduledAt = time.UnixMilli(row.scheduledAt).UTC()
	}
	if err := json.Unmarshal([]byte(row.tags), &p.Tags); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(row.media), &p.Media); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(row.targets), &p.Targets); err != nil {
		return nil, err
	}
	if row.game.Valid && row.game.String != "null" {
		p.Game = &game.Source{}
		if err := json.Unmarshal([]byte(row.game.String), p.Game); err != nil {
			return nil, err
		}
	}
	if row.metrics.Valid && row.metrics.String != "null" {
		if err := json.Unmarshal([]byte(row.metrics.String), &p.Metrics); err != nil {
			return nil, err
		}
	}
	if row.results.Valid && row.results.String != "null" {
		if err := json.Unmarshal([]byte(row.results.String), &p.Results); err != nil {
			return nil, err
		}
	}
	return p, nil
}
