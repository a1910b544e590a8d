package api

import (
	"errors"
	"fmt"
	"net/http"
)

// fallbackMessage is used when a failure body carries no message.
const fallbackMessage = "request failed"

// Error is a non-2xx response from the API, carrying the original
// status code and the server's {message} body when present. Callers
// branch on the status code, not the text: 401 means the cached
// session was purged, 403 on note creation means the tenant hit its
// plan limit.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is an API 401.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsPlanLimit reports whether err is an API 403, the business-rule
// failure that should surface an upgrade prompt instead of a generic
// error message.
func IsPlanLimit(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden
}

// ErrorMessage extracts a user-facing message from err, falling back
// to the given string for failures without a server payload.
func ErrorMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
