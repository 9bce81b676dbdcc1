package identity

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession is returned by operations that require an active session.
	ErrNoSession = errors.New("identity: no active session")
	// ErrProviderUnavailable wraps transport-level failures reaching the provider.
	ErrProviderUnavailable = errors.New("identity: provider unavailable")
)

// APIError carries the provider's own error message so callers can translate
// it into a user-facing string.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity: provider returned %d: %s", e.Status, e.Message)
}

// ProviderMessage extracts the raw provider error message from an error
// chain, falling back to the error's own text.
func ProviderMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
