package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/nflstats/internal/model"
)

// TextWriter outputs human-readable text for terminal display.
type TextWriter struct {
	baseWriter

	// verbose lists every export and failure instead of counts only.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose enables listing every export and failure.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteRuns outputs one block per run.
func (w *TextWriter) WriteRuns(runs []RunSummary) (int, error) {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
	sb.WriteString("                    NFL STATS SCRAPE\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")

	if len(runs) == 0 {
		sb.WriteString("\nNothing was scraped.\n")
	}

	for _, run := range runs {
		sb.WriteString("\n")
		header := fmt.Sprintf("%d %s", run.Season, title(run.Level.String()))
		if run.Week > 0 {
			header += fmt.Sprintf(" (week %d)", run.Week)
		}
		sb.WriteString(header + "\n")
		sb.WriteString(strings.Repeat("-", 60))
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Status:      %s\n", run.Status()))
		sb.WriteString(fmt.Sprintf("Categories:  %d\n", run.Categories))
		sb.WriteString(fmt.Sprintf("Pages:       %d\n", run.Pages))
		sb.WriteString(fmt.Sprintf("Files:       %d\n", len(run.Exports)))
		sb.WriteString(fmt.Sprintf("Rows:        %d\n", run.Rows))
		sb.WriteString(fmt.Sprintf("Failures:    %d\n", len(run.Failures)))
		sb.WriteString(fmt.Sprintf("Duration:    %s\n", run.Duration.Round(time.Millisecond)))

		if !w.verbose {
			continue
		}
		for _, e := range run.Exports {
			sb.WriteString(fmt.Sprintf("  + %s (%d rows)\n", e.Path, e.Rows))
		}
		for _, f := range run.Failures {
			sb.WriteString(fmt.Sprintf("  ! %s %s: %s\n", f.Stage, failureTarget(f), f.Message))
		}
	}

	return w.output.Write([]byte(sb.String()))
}

// WriteHistory outputs exports as aligned columns.
func (w *TextWriter) WriteHistory(exports []model.Export) (int, error) {
	var sb strings.Builder

	if len(exports) == 0 {
		sb.WriteString("No exports recorded.\n")
		return w.output.Write([]byte(sb.String()))
	}

	sb.WriteString(fmt.Sprintf("%-20s %-6s %-6s %-5s %-14s %-22s %6s  %s\n",
		"WRITTEN", "SEASON", "LEVEL", "WEEK", "UNIT", "CATEGORY", "ROWS", "HASH"))
	for _, e := range exports {
		sb.WriteString(fmt.Sprintf("%-20s %-6d %-6s %-5s %-14s %-22s %6d  %s\n",
			e.WrittenAt.Format("2006-01-02 15:04:05"),
			e.Season,
			e.Level,
			weekText(e.Week),
			truncateString(e.Unit, 14),
			truncateString(e.Category, 22),
			e.Rows,
			shortHash(e.Hash),
		))
	}
	return w.output.Write([]byte(sb.String()))
}

// failureTarget describes where a failure happened.
func failureTarget(f model.Failure) string {
	switch {
	case f.Unit != "" && f.Category != "":
		return f.Unit + "/" + f.Category
	case f.URL != "":
		return f.URL
	default:
		return "-"
	}
}

func weekText(week int) string {
	if week == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", week)
}

// shortHash returns the first 12 characters of a content hash.
func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
