package crawler

import (
	"errors"
	"fmt"
)

// ErrUnknownLevel is returned when no markup is configured for a level.
var ErrUnknownLevel = errors.New("no markup configured for level")

// StructureError is returned when markup or a URL does not have the shape
// the crawler expects: a landing page without group tabs, or a category
// URL with too few path segments.
type StructureError struct {
	// URL is the offending URL.
	URL string

	// Reason describes what was missing.
	Reason string
}

// Error implements error.
func (e *StructureError) Error() string {
	return fmt.Sprintf("unexpected structure at %s: %s", e.URL, e.Reason)
}
