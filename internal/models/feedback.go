// internal/models/feedback.go
package models

import "time"

// Feedback values accepted on answer feedback.
const (
	FeedbackPositive = "positive"
	FeedbackNegative = "negative"
)

// FeedbackRecord is a user judgment on one answer.
type FeedbackRecord struct {
	ID        int64     `json:"id"`
	Query     string    `json:"query"`
	Answer    string    `json:"answer"`
	Feedback  string    `json:"feedback"` // "positive" or "negative"
	CreatedAt time.Time `json:"created_at"`
}

// AppFeedback is general application feedback: a free-text message with
// an optional 1-5 star rating and an optional page tag.
type AppFeedback struct {
	ID        int64     `json:"id"`
	Rating    *int      `json:"rating,omitempty"` // 1..5 when present
	Message   string    `json:"message"`
	Page      string    `json:"page,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
