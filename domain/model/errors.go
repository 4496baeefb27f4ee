package model

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across components. Callers classify with errors.Is.
var (
	// ErrInvalidRequest marks publish requests whose shape fails validation
	// before any fan-out begins.
	ErrInvalidRequest = errors.New("invalid publish request")

	// ErrStateInvalid marks an OAuth callback state that does not parse or
	// verify; the callback fails closed with no account mutation.
	ErrStateInvalid = errors.New("oauth state invalid")

	// ErrStateExpired marks a state older than the replay window.
	ErrStateExpired = errors.New("oauth state expired")

	// ErrStateReplayed marks a state that was already consumed once.
	ErrStateReplayed = errors.New("oauth state already used")

	// ErrNotConnected is returned when secret resolution finds no secret row
	// for an account.
	ErrNotConnected = errors.New("account not connected")

	// ErrTokenExpired is returned when a stored secret has a known expiry in
	// the past.
	ErrTokenExpired = errors.New("account token expired")

	// ErrUnsupportedPost marks a (platform, post_type) pair no adapter is
	// registered for.
	ErrUnsupportedPost = errors.New("unsupported platform/post_type combination")
)

// AuthExchangeError wraps a provider's rejection of a code or token exchange.
// Codes are single-use; these are surfaced as "try connecting again", never
// retried automatically.
type AuthExchangeError struct {
	Platform Platform
	Step     string // "exchange_code", "long_lived_exchange", "fetch_identity"
	Err      error
}

func (e *AuthExchangeError) Error() string {
	return fmt.Sprintf("%s auth exchange failed at %s: %v", e.Platform, e.Step, e.Err)
}

func (e *AuthExchangeError) Unwrap() error { return e.Err }

// ProviderPublishError wraps a platform's rejection of a publish call. The
// message is sanitized provider output, safe to return to the caller.
type ProviderPublishError struct {
	Platform   Platform
	StatusCode int
	Message    string
}

func (e *ProviderPublishError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s rejected publish (status %d)", e.Platform, e.StatusCode)
	}
	return fmt.Sprintf("%s rejected publish: %s", e.Platform, e.Message)
}
