package pipeline

import "errors"

// ErrSeasonFailed is reported when no level of a season could be scraped.
var ErrSeasonFailed = errors.New("every level failed")
