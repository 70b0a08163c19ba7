// internal/store/noop/noop.go

// Package noop is the store selected when no storage backend is configured
// or reachable. Lookups always miss, writes succeed silently, and the rest
// of the pipeline stays unaware that caching is disabled.
package noop

import (
	"context"
	"time"

	"krishisahay/internal/models"
)

type Store struct{}

func New() *Store {
	return &Store{}
}

func (s *Store) Name() string { return "noop" }

func (s *Store) Close() error { return nil }

func (s *Store) Lookup(ctx context.Context, queryLower, language string) (*models.CachedAnswer, error) {
	return nil, nil
}

func (s *Store) RecordHit(ctx context.Context, id int64) error {
	return nil
}

func (s *Store) Insert(ctx context.Context, query, queryLower, language, answer, category string) (*models.CachedAnswer, error) {
	now := time.Now().UTC()
	return &models.CachedAnswer{
		Query:      query,
		QueryLower: queryLower,
		Language:   language,
		Answer:     answer,
		Category:   category,
		HitCount:   1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (s *Store) Search(ctx context.Context, category, language string, limit int) ([]models.KnowledgeSnippet, error) {
	return nil, nil
}

func (s *Store) SeedKnowledge(ctx context.Context, snippets []models.KnowledgeSnippet) error {
	return nil
}

func (s *Store) SaveFeedback(ctx context.Context, query, answer, feedback string) error {
	return nil
}

func (s *Store) SaveAppFeedback(ctx context.Context, message string, rating *int, page string) error {
	return nil
}

func (s *Store) RecentAppFeedback(ctx context.Context, limit int) ([]models.AppFeedback, error) {
	return nil, nil
}
