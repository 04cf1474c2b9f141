package fetch

import (
	"errors"
	"fmt"
)

// ErrEmptyURL is returned when Fetch is called with an empty URL.
var ErrEmptyURL = errors.New("empty url")

// StatusError is returned when the server answers with a non-success status.
type StatusError struct {
	// URL is the requested URL.
	URL string

	// StatusCode is the HTTP status code.
	StatusCode int

	// Status is the HTTP status line, e.g. "404 Not Found".
	Status string
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %s", e.URL, e.Status)
}

// IsStatus reports whether err is a *StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}
