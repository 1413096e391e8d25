package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCondition signals a malformed search condition (caller bug).
	ErrInvalidCondition = errors.New("invalid search condition")
	// ErrEmptyQuery signals a build attempt with no conditions (caller bug).
	ErrEmptyQuery = errors.New("query has no conditions")
	// ErrBuilderSealed signals builder use after Build (caller bug).
	ErrBuilderSealed = errors.New("query builder already built")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrJudgeUnavailable signals that the judgment oracle is absent or failed.
	// Scoring degrades to keyword-only; this never propagates to callers.
	ErrJudgeUnavailable = errors.New("judgment oracle unavailable")
)

// FetchKind classifies archive fetch failures for the caller's retry policy.
type FetchKind string

// Fetch failure kinds.
const (
	FetchAuthRequired FetchKind = "auth_required"
	FetchRateLimited  FetchKind = "rate_limited"
	FetchTimeout      FetchKind = "timeout"
	FetchParseError   FetchKind = "parse_error"
)

// FetchError wraps a pagination failure with its kind so the calling layer
// can decide between re-authentication, backoff, and giving up.
type FetchError struct {
	Kind FetchKind
	Page int
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch page %d: %s: %v", e.Page, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError creates a classified fetch error.
func NewFetchError(kind FetchKind, page int, err error) error {
	return &FetchError{Kind: kind, Page: page, Err: err}
}

// IsRetryable reports whether the failure kind is transient
// (rate limits and timeouts; auth and parse failures are not).
func (e *FetchError) IsRetryable() bool {
	return e.Kind == FetchRateLimited || e.Kind == FetchTimeout
}
