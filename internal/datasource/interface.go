package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/lp2m/internal/models"
)

// FixtureProvider defines the interface for fetching fixtures from external providers
type FixtureProvider interface {
	// UpcomingFixtures retrieves the next fixtures of a league given by key or numeric id
	UpcomingFixtures(ctx context.Context, league string) ([]models.Fixture, error)

	// ResolveLeague maps a league key or numeric id onto the provider's league id
	ResolveLeague(league string) (int, error)

	// Name returns the name of the provider
	Name() string

	// Ping reports whether the provider is currently usable
	Ping(ctx context.Context) error
}

// ProviderError represents errors from provider operations
type ProviderError struct {
	Provider string // Provider name
	Code     string // Error code (e.g., "rate_limit_exceeded")
	Message  string // Error message
	Err      error  // Underlying error
}

func (e ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + ": " + e.Code + ": " + e.Message
}

// Unwrap returns the underlying error.
func (e ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// NewProviderError creates a new provider error
func NewProviderError(provider, code, message string, err error) ProviderError {
	return ProviderError{
		Provider: provider,
		Code:     code,
		Message:  message,
		Err:      err,
	}
}

// IsProviderError reports whether err is, or wraps, a ProviderError.
func IsProviderError(err error) bool {
	var pe ProviderError
	return errors.As(err, &pe)
}

// statusErrorCode classifies a non-2xx upstream status.
func statusErrorCode(status int) string {
	switch {
	case status == 401 || status == 403:
		return ErrCodeAuthenticationFailed
	case status == 404:
		return ErrCodeNotFound
	case status == 429:
		return ErrCodeRateLimitExceeded
	default:
		return ErrCodeServerError
	}
}
