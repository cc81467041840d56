package llm

import (
	"errors"
	"fmt"
)

// ErrResponseShape is returned when a completed response lacks the expected
// completion field.
var ErrResponseShape = errors.New("unexpected response shape")

// APIError is a transport-level failure reported by a backend: a non-2xx
// response or an SDK error carrying an HTTP status.
type APIError struct {
	Backend    string
	StatusCode int

	// Message is the upstream error message when one could be decoded,
	// otherwise the raw response body.
	Message string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s api error: %s", e.Backend, e.Message)
	}
	return fmt.Sprintf("%s api error %d: %s", e.Backend, e.StatusCode, e.Message)
}

// IsAPIError reports whether err wraps an *APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// ErrorResponse is the JSON error body returned by the HTTP bridge.
type ErrorResponse struct {
	Error string `json:"error"`
}
