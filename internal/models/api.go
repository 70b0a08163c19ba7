// internal/models/api.go
package models

// Answer sources reported to the caller.
const (
	SourceCache = "cache" // served from the query cache
	SourceLocal = "local" // freshly synthesized this request
	SourceError = "error" // apologetic fallback after an internal fault
)

type AskRequest struct {
	Query    string `json:"query"`
	Language string `json:"language"` // defaults to "en"
}

type AskResponse struct {
	Answer   string `json:"answer"`
	Source   string `json:"source"` // "cache", "local" or "error"
	Category string `json:"category,omitempty"`
}

type FeedbackRequest struct {
	Query    string `json:"query"`
	Answer   string `json:"answer"`
	Feedback string `json:"feedback"` // "positive" or "negative"
}

type AppFeedbackRequest struct {
	Message string `json:"message"`
	Rating  *int   `json:"rating,omitempty"` // 1..5 optional
	Page    string `json:"page,omitempty"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Answer string `json:"answer,omitempty"`
	Source string `json:"source,omitempty"`
}

type AckResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
