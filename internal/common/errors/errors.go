// Package errors provides standardized error handling for the query
// answering service.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeEmptyQuery       ErrorCode = "EMPTY_QUERY"
	ErrCodeInvalidFeedback  ErrorCode = "INVALID_FEEDBACK"
	ErrCodeMessageTooShort  ErrorCode = "MESSAGE_TOO_SHORT"
	ErrCodeRatingOutOfRange ErrorCode = "RATING_OUT_OF_RANGE"
	ErrCodeMalformedRequest ErrorCode = "MALFORMED_REQUEST"

	ErrCodeCacheLookupFailed    ErrorCode = "CACHE_LOOKUP_FAILED"
	ErrCodeCacheWriteFailed     ErrorCode = "CACHE_WRITE_FAILED"
	ErrCodeKnowledgeFetchFailed ErrorCode = "KNOWLEDGE_FETCH_FAILED"
	ErrCodeFeedbackWriteFailed  ErrorCode = "FEEDBACK_WRITE_FAILED"
	ErrCodeStoreUnavailable     ErrorCode = "STORE_UNAVAILABLE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// HTTPStatus maps an error code to the status the API surface returns.
// Validation errors are the caller's fault; everything else is a 500.
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeEmptyQuery, ErrCodeInvalidFeedback, ErrCodeMessageTooShort,
		ErrCodeRatingOutOfRange, ErrCodeMalformedRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsValidation reports whether the error is a caller input problem, which
// is never logged as a system fault.
func (e *StandardError) IsValidation() bool {
	return e.HTTPStatus() == http.StatusBadRequest
}

// ==========================
// 2. Error Constructors
// ==========================

// NewEmptyQueryError rejects an empty or whitespace-only query.
func NewEmptyQueryError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyQuery,
		Message:   "Query cannot be empty",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFeedbackError rejects a feedback value outside {positive, negative}.
func NewInvalidFeedbackError(got string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFeedback,
		Message:   "Feedback must be positive or negative",
		Details:   fmt.Sprintf("got %q", got),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMessageTooShortError rejects an app-feedback message under 5 characters.
func NewMessageTooShortError() *StandardError {
	return &StandardError{
		Code:      ErrCodeMessageTooShort,
		Message:   "Message must be at least 5 characters",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRatingOutOfRangeError rejects a rating outside 1..5.
func NewRatingOutOfRangeError(got int) *StandardError {
	return &StandardError{
		Code:      ErrCodeRatingOutOfRange,
		Message:   "Rating must be between 1 and 5",
		Details:   fmt.Sprintf("got %d", got),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedRequestError rejects a request body that failed to bind.
func NewMalformedRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedRequest,
		Message:   "Request body is malformed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreError wraps a storage failure under the given code. Storage
// failures are retryable from the caller's point of view.
func NewStoreError(code ErrorCode, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   "Storage operation failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unclassified failure. The details never reach
// the response body; they are for server-side logs only.
func NewInternalError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Failed to process query",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return NewInternalError(err.Error())
}
