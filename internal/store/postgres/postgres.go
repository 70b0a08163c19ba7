// internal/store/postgres/postgres.go

// Package postgres is the primary storage backend: query cache, knowledge
// snippets and feedback in four tables. The (query_lower, language)
// uniqueness invariant is enforced by the database, not by application
// code: concurrent first-time inserts race through ON CONFLICT and the
// loser is converted into a hit increment.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"krishisahay/internal/models"
)

type Store struct {
	db *sql.DB
}

// New wraps an open connection. Call EnsureSchema before first use.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Name() string { return "postgres" }

func (s *Store) Close() error { return s.db.Close() }

// EnsureSchema creates the tables and indexes this store relies on.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS query_cache (
			id BIGSERIAL PRIMARY KEY,
			query TEXT NOT NULL,
			query_lower TEXT NOT NULL,
			language VARCHAR(10) NOT NULL DEFAULT 'en',
			answer TEXT NOT NULL,
			category VARCHAR(64),
			hit_count INT NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (query_lower, language)
		)`,
		`CREATE TABLE IF NOT EXISTS knowledge (
			id BIGSERIAL PRIMARY KEY,
			category VARCHAR(64) NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			keywords TEXT[],
			language VARCHAR(10) NOT NULL DEFAULT 'en',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_knowledge_category_language
			ON knowledge (category, language)`,
		`CREATE TABLE IF NOT EXISTS user_feedback (
			id BIGSERIAL PRIMARY KEY,
			query TEXT NOT NULL,
			answer TEXT NOT NULL,
			feedback VARCHAR(20) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS app_feedback (
			id BIGSERIAL PRIMARY KEY,
			rating SMALLINT,
			message TEXT NOT NULL,
			page VARCHAR(50),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

const cachedAnswerColumns = `id, query, query_lower, language, answer, category, hit_count, created_at, updated_at`

func (s *Store) Lookup(ctx context.Context, queryLower, language string) (*models.CachedAnswer, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+cachedAnswerColumns+` FROM query_cache WHERE query_lower = $1 AND language = $2`,
		queryLower, language,
	)

	answer, err := scanCachedAnswer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache lookup: %w", err)
	}
	return answer, nil
}

func (s *Store) RecordHit(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE query_cache SET hit_count = hit_count + 1, updated_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("record hit: %w", err)
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, query, queryLower, language, answer, category string) (*models.CachedAnswer, error) {
	// The conflict arm deliberately leaves the stored answer untouched:
	// losing the insert race means someone answered first, and their
	// answer stands. The loser becomes a hit.
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO query_cache (query, query_lower, language, answer, category)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (query_lower, language)
		 DO UPDATE SET hit_count = query_cache.hit_count + 1, updated_at = now()
		 RETURNING `+cachedAnswerColumns,
		query, queryLower, language, answer, category,
	)

	inserted, err := scanCachedAnswer(row)
	if err != nil {
		return nil, fmt.Errorf("cache insert: %w", err)
	}
	return inserted, nil
}

func (s *Store) Search(ctx context.Context, category, language string, limit int) ([]models.KnowledgeSnippet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category, title, content, keywords, language, created_at
		 FROM knowledge WHERE category = $1 AND language = $2 ORDER BY id LIMIT $3`,
		category, language, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("knowledge search: %w", err)
	}
	defer rows.Close()

	var snippets []models.KnowledgeSnippet
	for rows.Next() {
		var snip models.KnowledgeSnippet
		if err := rows.Scan(
			&snip.ID, &snip.Category, &snip.Title, &snip.Content,
			pq.Array(&snip.Keywords), &snip.Language, &snip.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("knowledge scan: %w", err)
		}
		snippets = append(snippets, snip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("knowledge rows: %w", err)
	}
	return snippets, nil
}

func (s *Store) SeedKnowledge(ctx context.Context, snippets []models.KnowledgeSnippet) error {
	for _, snip := range snippets {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO knowledge (category, title, content, keywords, language)
			 VALUES ($1, $2, $3, $4, $5)`,
			snip.Category, snip.Title, snip.Content, pq.Array(snip.Keywords), snip.Language,
		)
		if err != nil {
			return fmt.Errorf("seed knowledge %q: %w", snip.Title, err)
		}
	}
	return nil
}

func (s *Store) SaveFeedback(ctx context.Context, query, answer, feedback string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_feedback (query, answer, feedback) VALUES ($1, $2, $3)`,
		query, answer, feedback,
	)
	if err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	return nil
}

func (s *Store) SaveAppFeedback(ctx context.Context, message string, rating *int, page string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO app_feedback (rating, message, page) VALUES ($1, $2, $3)`,
		rating, message, nullableString(page),
	)
	if err != nil {
		return fmt.Errorf("save app feedback: %w", err)
	}
	return nil
}

func (s *Store) RecentAppFeedback(ctx context.Context, limit int) ([]models.AppFeedback, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, rating, message, page, created_at
		 FROM app_feedback ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent app feedback: %w", err)
	}
	defer rows.Close()

	var items []models.AppFeedback
	for rows.Next() {
		var item models.AppFeedback
		var rating sql.NullInt64
		var page sql.NullString
		if err := rows.Scan(&item.ID, &rating, &item.Message, &page, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("app feedback scan: %w", err)
		}
		if rating.Valid {
			r := int(rating.Int64)
			item.Rating = &r
		}
		item.Page = page.String
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("app feedback rows: %w", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCachedAnswer(row rowScanner) (*models.CachedAnswer, error) {
	var answer models.CachedAnswer
	var category sql.NullString
	err := row.Scan(
		&answer.ID, &answer.Query, &answer.QueryLower, &answer.Language,
		&answer.Answer, &category, &answer.HitCount,
		&answer.CreatedAt, &answer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	answer.Category = category.String
	return &answer, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
