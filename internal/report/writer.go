package report

import (
	"io"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/nflstats/internal/model"
)

// Writer defines the interface for report output.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or both with
// the same API.
type Writer interface {
	// WriteRuns outputs the summary of finished pipeline runs.
	// Returns the number of bytes written and any error encountered.
	WriteRuns(runs []RunSummary) (int, error)

	// WriteHistory outputs recorded exports.
	WriteHistory(exports []model.Export) (int, error)
}

// MultiWriter writes to multiple Writers.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteRuns outputs the runs to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) WriteRuns(runs []RunSummary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteRuns(runs)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteHistory outputs the exports to all configured Writers.
func (m *MultiWriter) WriteHistory(exports []model.Export) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteHistory(exports)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// RunSummary is the reportable view of one finished (season, level) job.
type RunSummary struct {
	Season     int             `json:"season"`
	Level      model.Level     `json:"level"`
	Week       int             `json:"week,omitempty"`
	Categories int             `json:"categories"`
	Pages      int             `json:"pages"`
	Rows       int             `json:"rows"`
	Exports    []model.Export  `json:"exports"`
	Failures   []model.Failure `json:"failures,omitempty"`
	StartedAt  time.Time       `json:"startedAt"`
	Duration   time.Duration   `json:"duration"`
	Cancelled  bool            `json:"cancelled,omitempty"`
}

// NewRunSummary builds the summary of job.
func NewRunSummary(job *model.Job) RunSummary {
	return RunSummary{
		Season:     job.Config.Season,
		Level:      job.Config.Level,
		Week:       job.Config.Week(),
		Categories: job.Links.CategoryCount(),
		Pages:      job.Links.PageCount(),
		Rows:       job.RowCount(),
		Exports:    job.Exports,
		Failures:   job.Failures,
		StartedAt:  job.StartedAt,
		Duration:   job.Duration(),
		Cancelled:  job.Cancelled,
	}
}

// NewRunSummaries builds the summaries of jobs in order.
func NewRunSummaries(jobs []*model.Job) []RunSummary {
	runs := make([]RunSummary, 0, len(jobs))
	for _, job := range jobs {
		runs = append(runs, NewRunSummary(job))
	}
	return runs
}

// Status returns a one-word status of the run.
func (r RunSummary) Status() string {
	switch {
	case r.Cancelled:
		return "cancelled"
	case len(r.Failures) > 0 && len(r.Exports) == 0:
		return "failed"
	case len(r.Failures) > 0:
		return "partial"
	default:
		return "complete"
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// title turns a slug such as "special-teams" into "Special-Teams".
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
