package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"contently/posts"
)

const postColumns = `id, user_id, prompt, keywords, critique, reference_materials, sources,
	title, summary, content, status, version, generation_started_at, created_at, updated_at`

var _ posts.Store = (*Store)(nil)

func (s *Store) Create(ctx context.Context, p *posts.Post) error {
	if p == nil || p.ID == "" || p.UserID == "" {
		return errors.New("post id and user id are required")
	}
	if p.Version == 0 {
		p.Version = 1
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	_, err := s.exec(ctx, `
		INSERT INTO posts (id, user_id, prompt, keywords, critique, reference_materials, sources,
			status, version, created_at, updated_at)
		VALUES (`+placeholders(11)+`)
	`,
		p.ID,
		p.UserID,
		p.Prompt,
		nullString(p.Keywords),
		nullString(p.Critique),
		nullString(p.ReferenceMaterials),
		nullString(p.Sources),
		string(p.Status),
		p.Version,
		p.CreatedAt.UTC(),
		p.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (s *Store) GetOwned(ctx context.Context, id, userID string) (*posts.Post, error) {
	row := s.queryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1 AND user_id = $2`, id, userID)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

func (s *Store) ListOwned(ctx context.Context, userID string, status posts.Status) ([]posts.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts WHERE user_id = $1`
	args := []any{userID}
	if status != "" {
		q += ` AND status = $2`
		args = append(args, string(status))
	}
	q += ` ORDER BY created_at DESC, id`

	rows, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var out []posts.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return out, nil
}

func (s *Store) CountByStatus(ctx context.Context, userID string) (map[posts.Status]int, error) {
	rows, err := s.query(ctx, `SELECT status, COUNT(*) FROM posts WHERE user_id = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	defer rows.Close()

	counts := make(map[posts.Status]int, len(posts.Statuses))
	for _, st := range posts.Statuses {
		counts[st] = 0
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[posts.Status(status)] = n
	}
	return counts, rows.Err()
}

func (s *Store) MarkGenerating(ctx context.Context, id string, version int64, startedAt time.Time) (int64, error) {
	res, err := s.exec(ctx, `
		UPDATE posts
		SET status = 'generating', version = version + 1, generation_started_at = $1, updated_at = $1
		WHERE id = $2 AND status = 'draft' AND version = $3
	`, startedAt.UTC(), id, version)
	if err != nil {
		return 0, fmt.Errorf("mark generating: %w", err)
	}
	if err := expectOne(res); err != nil {
		return 0, err
	}
	return version + 1, nil
}

func (s *Store) CompleteGeneration(ctx context.Context, id string, version int64, a posts.Article) error {
	res, err := s.exec(ctx, `
		UPDATE posts
		SET title = $1, summary = $2, content = $3, status = 'generated',
			version = version + 1, generation_started_at = NULL, updated_at = $4
		WHERE id = $5 AND status = 'generating' AND version = $6
	`, a.Title, a.Summary, a.Content, s.now(), id, version)
	if err != nil {
		return fmt.Errorf("save generated post: %w", err)
	}
	return expectOne(res)
}

func (s *Store) RevertToDraft(ctx context.Context, id string, version int64) error {
	res, err := s.exec(ctx, `
		UPDATE posts
		SET status = 'draft', version = version + 1, generation_started_at = NULL, updated_at = $1
		WHERE id = $2 AND status = 'generating' AND version = $3
	`, s.now(), id, version)
	if err != nil {
		return fmt.Errorf("revert to draft: %w", err)
	}
	return expectOne(res)
}

func (s *Store) ReclaimStale(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := s.query(ctx, `
		UPDATE posts
		SET status = 'draft', version = version + 1, generation_started_at = NULL, updated_at = $1
		WHERE status = 'generating' AND generation_started_at < $2
		RETURNING id
	`, s.now(), cutoff.UTC())
	if err != nil {
		return nil, fmt.Errorf("reclaim stale posts: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan reclaimed id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return posts.ErrConflict
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(sc scanner) (*posts.Post, error) {
	var (
		p                                       posts.Post
		keywords, critique, references, sources sql.NullString
		title, summary, content                 sql.NullString
		status                                  string
		startedAt                               sql.NullTime
	)
	if err := sc.Scan(
		&p.ID,
		&p.UserID,
		&p.Prompt,
		&keywords,
		&critique,
		&references,
		&sources,
		&title,
		&summary,
		&content,
		&status,
		&p.Version,
		&startedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Keywords = stringPtr(keywords)
	p.Critique = stringPtr(critique)
	p.ReferenceMaterials = stringPtr(references)
	p.Sources = stringPtr(sources)
	p.Title = stringPtr(title)
	p.Summary = stringPtr(summary)
	p.Content = stringPtr(content)
	p.Status = posts.Status(status)
	if startedAt.Valid {
		t := startedAt.Time.UTC()
		p.GenerationStartedAt = &t
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
