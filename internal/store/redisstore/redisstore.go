// internal/store/redisstore/redisstore.go

// Package redisstore is the fallback storage backend used when Postgres is
// not configured or unreachable. Cached answers live in one hash per
// (normalized query, language) key; the hit counter moves only through
// HIncrBy so concurrent hits never lose increments, and first-writer-wins
// on the row itself is decided by HSetNX on the id field.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"krishisahay/internal/models"
)

const (
	nextIDKey  = "qa:next_id"
	idIndexKey = "qa:ids" // id -> row key, for RecordHit

	answerFeedbackKey = "feedback:answers"
	appFeedbackKey    = "feedback:app"
)

type Store struct {
	client *redis.Client
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Name() string { return "redis" }

func (s *Store) Close() error { return s.client.Close() }

func cacheKey(queryLower, language string) string {
	return "qa:" + language + ":" + queryLower
}

func knowledgeKey(category, language string) string {
	return "knowledge:" + language + ":" + category
}

func (s *Store) Lookup(ctx context.Context, queryLower, language string) (*models.CachedAnswer, error) {
	fields, err := s.client.HGetAll(ctx, cacheKey(queryLower, language)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache lookup: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return parseCachedAnswer(fields)
}

func (s *Store) RecordHit(ctx context.Context, id int64) error {
	key, err := s.client.HGet(ctx, idIndexKey, strconv.FormatInt(id, 10)).Result()
	if err == redis.Nil {
		return nil // record evicted or never indexed; the counter is best-effort
	}
	if err != nil {
		return fmt.Errorf("record hit: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.HIncrBy(ctx, key, "hit_count", 1)
	pipe.HSet(ctx, key, "updated_at", time.Now().UTC().Format(time.RFC3339Nano))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record hit: %w", err)
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, query, queryLower, language, answer, category string) (*models.CachedAnswer, error) {
	key := cacheKey(queryLower, language)

	id, err := s.client.Incr(ctx, nextIDKey).Result()
	if err != nil {
		return nil, fmt.Errorf("cache insert: %w", err)
	}

	won, err := s.client.HSetNX(ctx, key, "id", id).Result()
	if err != nil {
		return nil, fmt.Errorf("cache insert: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	pipe := s.client.Pipeline()
	if won {
		pipe.HSet(ctx, key, map[string]interface{}{
			"query":       query,
			"query_lower": queryLower,
			"language":    language,
			"answer":      answer,
			"category":    category,
			"created_at":  now,
			"updated_at":  now,
		})
		pipe.HSet(ctx, idIndexKey, strconv.FormatInt(id, 10), key)
	} else {
		// Lost the first-writer race: the existing answer stands and this
		// insert degrades to a hit.
		pipe.HSet(ctx, key, "updated_at", now)
	}
	pipe.HIncrBy(ctx, key, "hit_count", 1)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("cache insert: %w", err)
	}

	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("cache insert readback: %w", err)
	}
	return parseCachedAnswer(fields)
}

func (s *Store) Search(ctx context.Context, category, language string, limit int) ([]models.KnowledgeSnippet, error) {
	if limit <= 0 {
		return nil, nil
	}
	raw, err := s.client.LRange(ctx, knowledgeKey(category, language), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("knowledge search: %w", err)
	}

	var snippets []models.KnowledgeSnippet
	for _, item := range raw {
		var snip models.KnowledgeSnippet
		if err := json.Unmarshal([]byte(item), &snip); err != nil {
			return nil, fmt.Errorf("knowledge decode: %w", err)
		}
		snippets = append(snippets, snip)
	}
	return snippets, nil
}

func (s *Store) SeedKnowledge(ctx context.Context, snippets []models.KnowledgeSnippet) error {
	for _, snip := range snippets {
		if snip.CreatedAt.IsZero() {
			snip.CreatedAt = time.Now().UTC()
		}
		payload, err := json.Marshal(snip)
		if err != nil {
			return fmt.Errorf("seed knowledge %q: %w", snip.Title, err)
		}
		if err := s.client.RPush(ctx, knowledgeKey(snip.Category, snip.Language), payload).Err(); err != nil {
			return fmt.Errorf("seed knowledge %q: %w", snip.Title, err)
		}
	}
	return nil
}

func (s *Store) SaveFeedback(ctx context.Context, query, answer, feedback string) error {
	record := models.FeedbackRecord{
		Query:     query,
		Answer:    answer,
		Feedback:  feedback,
		CreatedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	if err := s.client.RPush(ctx, answerFeedbackKey, payload).Err(); err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	return nil
}

func (s *Store) SaveAppFeedback(ctx context.Context, message string, rating *int, page string) error {
	record := models.AppFeedback{
		Rating:    rating,
		Message:   message,
		Page:      page,
		CreatedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("save app feedback: %w", err)
	}
	if err := s.client.RPush(ctx, appFeedbackKey, payload).Err(); err != nil {
		return fmt.Errorf("save app feedback: %w", err)
	}
	return nil
}

func (s *Store) RecentAppFeedback(ctx context.Context, limit int) ([]models.AppFeedback, error) {
	if limit <= 0 {
		return nil, nil
	}
	// Records are appended, so the most recent sit at the tail.
	raw, err := s.client.LRange(ctx, appFeedbackKey, int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("recent app feedback: %w", err)
	}

	items := make([]models.AppFeedback, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- { // newest first
		var item models.AppFeedback
		if err := json.Unmarshal([]byte(raw[i]), &item); err != nil {
			return nil, fmt.Errorf("app feedback decode: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

func parseCachedAnswer(fields map[string]string) (*models.CachedAnswer, error) {
	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache row id: %w", err)
	}
	hits, err := strconv.Atoi(fields["hit_count"])
	if err != nil {
		return nil, fmt.Errorf("cache row hit_count: %w", err)
	}

	createdAt, _ := time.Parse(time.RFC3339Nano, fields["created_at"])
	updatedAt, _ := time.Parse(time.RFC3339Nano, fields["updated_at"])

	return &models.CachedAnswer{
		ID:         id,
		Query:      fields["query"],
		QueryLower: fields["query_lower"],
		Language:   fields["language"],
		Answer:     fields["answer"],
		Category:   fields["category"],
		HitCount:   hits,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, nil
}
