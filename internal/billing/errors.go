package billing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAPIKey is returned when the Stripe API key is missing or blank.
	ErrInvalidAPIKey = errors.New("billing: invalid or missing API key")

	// ErrNotFound is returned when a point lookup finds no record.
	ErrNotFound = errors.New("billing: record not found")
)

// StripeError wraps a Stripe API error with additional context.
type StripeError struct {
	Message       string // Human-readable error message
	Code          string // Stripe error code (e.g., "rate_limit")
	RequestID     string // Stripe request ID for debugging
	StatusCode    int    // HTTP status code from Stripe
	OriginalError error  // Original error from Stripe SDK
}

func (e *StripeError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("stripe: %s (code: %s)", e.Message, e.Code)
	}
	return fmt.Sprintf("stripe: %s", e.Message)
}

func (e *StripeError) Unwrap() error {
	return e.OriginalError
}

// IsAuthFailure returns true if the API rejected the credentials.
func (e *StripeError) IsAuthFailure() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// IsTemporary returns true if error is likely transient.
func (e *StripeError) IsTemporary() bool {
	return e.Code == "rate_limit" || e.Code == "api_connection_error"
}
