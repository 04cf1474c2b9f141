// Package pipeline executes a scrape as a sequence of steps.
//
// One pipeline run scrapes one (season, level) pair:
//
//	discover -> organize -> paginate -> export
//
// Each step receives the shared *model.Job and extends it: discovery fills
// the category URLs, the organizer builds the unit/category link map, the
// paginator expands every category into its page sequence, and the export
// step extracts, merges and writes one file per category.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It provides consistent error handling and logging across steps
// 2. It supports cancellation via context between steps
// 3. Steps can be replaced in tests without a network
//
// The Runner drives pipelines over seasons and levels strictly one after
// another, so the site only ever sees a single request in flight.
package pipeline
