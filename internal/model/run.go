package model

import (
	"path/filepath"
	"strconv"
	"time"
)

// RunConfig is the immutable description of one (season, level) scrape.
// It is built once before the pipeline starts and passed to every step.
type RunConfig struct {
	// Season is the requested season.
	Season int

	// Level selects player or team statistics.
	Level Level

	// CurrentSeason is the season resolved from today's date.
	CurrentSeason int

	// CurrentWeek is the week resolved from today's date.
	CurrentWeek int

	// OutputDir is the root directory exports are written under ("data").
	OutputDir string
}

// IsCurrentSeason reports whether the run targets the in-progress season.
func (c RunConfig) IsCurrentSeason() bool {
	return c.Season == c.CurrentSeason
}

// Week returns the week recorded for exports of this run: the current week
// for the current season, 0 for historic seasons.
func (c RunConfig) Week() int {
	if c.IsCurrentSeason() {
		return c.CurrentWeek
	}
	return 0
}

// LevelDir returns <output>/<season>/<level>[/week<N>].
func (c RunConfig) LevelDir() string {
	dir := filepath.Join(c.OutputDir, strconv.Itoa(c.Season), c.Level.String())
	if c.IsCurrentSeason() {
		dir = filepath.Join(dir, "week"+strconv.Itoa(c.CurrentWeek))
	}
	return dir
}

// UnitDir returns the directory a unit's category files are written to.
// Team level nests each unit in its own directory; player level writes
// directly under the level directory.
func (c RunConfig) UnitDir(unit string) string {
	if c.Level.HasUnitDirectory() {
		return filepath.Join(c.LevelDir(), unit)
	}
	return c.LevelDir()
}

// Export describes one category file written by a run.
type Export struct {
	Season    int       `json:"season"`
	Level     Level     `json:"level"`
	Week      int       `json:"week"`
	Unit      string    `json:"unit"`
	Category  string    `json:"category"`
	Path      string    `json:"path"`
	Pages     int       `json:"pages"`
	Rows      int       `json:"rows"`
	Columns   int       `json:"columns"`
	Hash      string    `json:"hash"`
	WrittenAt time.Time `json:"writtenAt"`

	// Unchanged is set when the content hash matches the previous export
	// of the same category. It is not persisted.
	Unchanged bool `json:"unchanged,omitempty"`
}

// Failure records a slice of work that was skipped.
type Failure struct {
	// Stage is the pipeline stage that failed (discover, organize, paginate, extract, write).
	Stage string `json:"stage"`

	// Unit and Category identify the slice, when known.
	Unit     string `json:"unit,omitempty"`
	Category string `json:"category,omitempty"`

	// URL is the offending URL, when known.
	URL string `json:"url,omitempty"`

	// Message is the error text.
	Message string `json:"message"`
}

// Job is the mutable state of one pipeline execution.
// Steps run one at a time; the running step has exclusive access.
type Job struct {
	// Config is the run configuration. Steps must not modify it.
	Config RunConfig

	// CategoryURLs are the category page URLs found by link discovery,
	// with the requested season substituted.
	CategoryURLs []string

	// Links is the unit -> category -> page sequence map.
	Links LinkMap

	// Exports are the files written, in write order.
	Exports []Export

	// Failures are the skipped slices of work, in encounter order.
	Failures []Failure

	// StartedAt and FinishedAt bound the execution.
	StartedAt  time.Time
	FinishedAt time.Time

	// PerformedSteps lists the names of the steps that ran.
	PerformedSteps []string

	// Cancelled is set when the context ended before all steps ran.
	Cancelled bool
}

// NewJob creates a Job for cfg.
func NewJob(cfg RunConfig) *Job {
	return &Job{
		Config:  cfg,
		Links:   make(LinkMap),
		Exports: make([]Export, 0),
	}
}

// AddFailure records a skipped slice of work.
func (j *Job) AddFailure(f Failure) {
	j.Failures = append(j.Failures, f)
}

// RowCount returns the total rows across all exports.
func (j *Job) RowCount() int {
	n := 0
	for _, e := range j.Exports {
		n += e.Rows
	}
	return n
}

// Duration returns how long the job ran.
func (j *Job) Duration() time.Duration {
	if j.StartedAt.IsZero() || j.FinishedAt.IsZero() {
		return 0
	}
	return j.FinishedAt.Sub(j.StartedAt)
}
