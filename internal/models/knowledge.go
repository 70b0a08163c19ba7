// internal/models/knowledge.go
package models

import "time"

// KnowledgeSnippet is a static reference document used to enrich
// generated answers. Seeded out-of-band, read-only at runtime.
type KnowledgeSnippet struct {
	ID        int64     `json:"id"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Keywords  []string  `json:"keywords,omitempty"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}
