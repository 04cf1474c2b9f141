package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while still printing a readable message.
var (
	// ErrInvalidBaseURL is returned when the base URL is not an absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("invalid base url: must be absolute, e.g. https://www.nfl.com")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxPages is returned when the per-category page cap is not positive.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidFormat is returned when the export format is neither csv nor xlsx.
	ErrInvalidFormat = errors.New("invalid format: must be csv or xlsx")

	// ErrNoOutputDir is returned when the output directory is empty.
	ErrNoOutputDir = errors.New("no output directory specified")

	// ErrInvalidLevel is returned when a configured level is not player or team.
	ErrInvalidLevel = errors.New("invalid level: must be player or team")

	// ErrIncompleteMarkup is returned when a level is missing one of its selectors.
	ErrIncompleteMarkup = errors.New("incomplete markup configuration: every level needs landingPath, groupSelector, categorySelector, nextSelector and detailClass")

	// ErrInvalidSeasonRange is returned when a backfill starts after it ends.
	ErrInvalidSeasonRange = errors.New("invalid season range: --from must not be after --to")
)
