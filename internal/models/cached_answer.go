// internal/models/cached_answer.go
package models

import (
	"strings"
	"time"
)

// CachedAnswer is one previously answered query. The pair
// (QueryLower, Language) is unique: at most one row per normalized
// query per language.
type CachedAnswer struct {
	ID         int64     `json:"id"`
	Query      string    `json:"query"`
	QueryLower string    `json:"query_lower"`
	Language   string    `json:"language"`
	Answer     string    `json:"answer"`
	Category   string    `json:"category"`
	HitCount   int       `json:"hit_count"` // >= 1, best-effort popularity counter
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NormalizeQuery produces the cache-key form of a query: trimmed and
// lowercased. "How to grow RICE?" and "  how to grow rice?  " share a key.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
