package ai

import (
	"errors"
	"fmt"
)

// The error taxonomy is closed: every failure a provider or the gateway can
// surface is one of the five kinds below. Callers distinguish them with
// errors.Is for the sentinel kinds and errors.As for the detail-carrying ones.
var (
	// ErrProviderNotFound is returned when the requested ProviderType has no
	// configured provider (typically because its credential was absent at
	// construction time).
	ErrProviderNotFound = errors.New("provider not found")

	// ErrRateLimitExceeded is returned when the backend answers HTTP 429.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrInvalidAPIKey is returned when the backend answers HTTP 401, or when
	// a request is attempted with an empty API key.
	ErrInvalidAPIKey = errors.New("invalid API key")
)

// APIError reports a backend or protocol failure: a non-success status that is
// not 429/401, or a success status whose body did not parse into the expected
// schema. Detail carries the backend's own diagnostic when it could be
// extracted, otherwise the raw status and body text.
type APIError struct {
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed: %s", e.Detail)
}

// NetworkError reports a transport-level failure (DNS, TLS, connection reset,
// timeout) that occurred before any HTTP status was available.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
