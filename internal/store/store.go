// internal/store/store.go

// Package store defines the storage contracts behind the query answering
// pipeline and selects a backend at startup. All mutation goes through
// single atomic operations (increment-by-id, upsert-by-key); callers never
// perform read-modify-write themselves.
package store

import (
	"context"

	"krishisahay/internal/models"
)

// CacheStore is the durable layer over cached answers, keyed by
// (normalized query, language).
type CacheStore interface {
	// Lookup returns the cached answer for the key, or (nil, nil) when
	// absent. Lookup never mutates state.
	Lookup(ctx context.Context, queryLower, language string) (*models.CachedAnswer, error)

	// RecordHit atomically increments the hit counter and refreshes the
	// updated timestamp of the identified record. Concurrent hits must
	// not lose increments.
	RecordHit(ctx context.Context, id int64) error

	// Insert creates a record with hit count 1. When a record for
	// (queryLower, language) already exists the insert resolves into a
	// hit increment on the existing record, which is returned; the
	// stored answer is never overwritten.
	Insert(ctx context.Context, query, queryLower, language, answer, category string) (*models.CachedAnswer, error)
}

// KnowledgeStore retrieves read-only reference snippets for answer
// enrichment, and accepts out-of-band seeding.
type KnowledgeStore interface {
	// Search returns up to limit snippets for a category and language.
	// Order is storage-defined. An unavailable backend is the caller's
	// cue to proceed with zero snippets, not to fail.
	Search(ctx context.Context, category, language string, limit int) ([]models.KnowledgeSnippet, error)

	// SeedKnowledge loads reference snippets. Used by the seed tool only.
	SeedKnowledge(ctx context.Context, snippets []models.KnowledgeSnippet) error
}

// FeedbackStore persists user judgments. Write-only from the pipeline's
// perspective; RecentAppFeedback exists for the listing endpoint.
type FeedbackStore interface {
	SaveFeedback(ctx context.Context, query, answer, feedback string) error
	SaveAppFeedback(ctx context.Context, message string, rating *int, page string) error
	RecentAppFeedback(ctx context.Context, limit int) ([]models.AppFeedback, error)
}

// Store is a full backend: cache, knowledge and feedback in one place.
type Store interface {
	CacheStore
	KnowledgeStore
	FeedbackStore

	// Name identifies the backend in logs ("postgres", "redis", "noop").
	Name() string
	Close() error
}

// Stores is the resolved set of backends the pipeline runs against. The
// knowledge side may come from a different backend than the cache (e.g.
// Elasticsearch for snippet search over a Postgres cache).
type Stores struct {
	Cache     CacheStore
	Knowledge KnowledgeStore
	Feedback  FeedbackStore

	// Backend is the name of the primary store selected by the probe.
	Backend string

	closers []func() error
}

// Close releases every backend owned by the set.
func (s *Stores) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
