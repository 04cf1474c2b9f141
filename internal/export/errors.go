package export

import "errors"

var (
	// ErrNoData is returned when every page of a category was empty,
	// so there is nothing to write.
	ErrNoData = errors.New("no data to export")

	// ErrUnsupportedFormat is returned for an unknown output format.
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
