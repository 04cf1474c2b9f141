package export

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/nflstats/internal/model"
)

// Output formats.
const (
	// FormatCSV writes comma separated files with a header row.
	FormatCSV = "csv"

	// FormatXLSX writes one-sheet Excel workbooks.
	FormatXLSX = "xlsx"
)

// SupportedFormat reports whether format is one of the output formats.
func SupportedFormat(format string) bool {
	return format == FormatCSV || format == FormatXLSX
}

// Target identifies the category a file is written for.
type Target struct {
	// Run is the configuration of the run producing the file.
	Run model.RunConfig

	// Unit is the unit the category belongs to.
	Unit string

	// Category is the category name. It becomes the file name.
	Category string
}

// Dir returns the directory the target's file is written to.
func (t Target) Dir() string {
	return t.Run.UnitDir(t.Unit)
}

// Path returns the file path of the target for format.
func (t Target) Path(format string) string {
	return filepath.Join(t.Dir(), t.Category+"."+format)
}

// Writer merges the record sets of a category and writes them to disk.
type Writer struct {
	// format is the output format (csv or xlsx).
	format string

	// now returns the time recorded on exports.
	now func() time.Time

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithFormat sets the output format.
func WithFormat(format string) Option {
	return func(w *Writer) {
		w.format = format
	}
}

// WithClock sets the function used to timestamp exports.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) {
		w.logger = logger
	}
}

// NewWriter creates a Writer. The default format is CSV.
func NewWriter(opts ...Option) (*Writer, error) {
	w := &Writer{
		format: FormatCSV,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if !SupportedFormat(w.format) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, w.format)
	}
	return w, nil
}

// Format returns the configured output format.
func (w *Writer) Format() string {
	return w.format
}

// Write merges pages, cleans the Team column and writes the result to the
// target's file, replacing any previous file.
//
// Pages whose columns do not match the first non-empty page are left out
// and logged. When no rows remain ErrNoData is returned and no file is
// created. This includes categories whose pages were fetched and carry a
// header row but no data rows: no header-only file is written for them,
// and a file left by an earlier run is kept as is.
func (w *Writer) Write(ctx context.Context, target Target, pages []model.RecordSet) (model.Export, error) {
	if err := ctx.Err(); err != nil {
		return model.Export{}, err
	}

	merged, skipped := model.Merge(pages)
	for _, i := range skipped {
		w.logger.WarnContext(ctx, "dropping page with mismatched columns",
			"page", i, "want", merged.Columns, "got", pages[i].Columns)
	}
	if merged.Empty() {
		return model.Export{}, ErrNoData
	}
	merged.CleanTeamColumn()

	content, err := w.encode(target, merged)
	if err != nil {
		return model.Export{}, fmt.Errorf("failed to encode %s: %w", target.Category, err)
	}

	dir := target.Dir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return model.Export{}, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := target.Path(w.format)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return model.Export{}, fmt.Errorf("failed to write %s: %w", path, err)
	}

	export := model.Export{
		Season:    target.Run.Season,
		Level:     target.Run.Level,
		Week:      target.Run.Week(),
		Unit:      target.Unit,
		Category:  target.Category,
		Path:      path,
		Pages:     len(pages) - len(skipped),
		Rows:      merged.Len(),
		Columns:   len(merged.Columns),
		Hash:      Hash(content),
		WrittenAt: w.now(),
	}

	w.logger.InfoContext(ctx, "exported category", "path", path, "rows", export.Rows)
	return export, nil
}

func (w *Writer) encode(target Target, records model.RecordSet) ([]byte, error) {
	var buf bytes.Buffer
	switch w.format {
	case FormatXLSX:
		if err := EncodeXLSX(&buf, SheetName(target.Category), records); err != nil {
			return nil, err
		}
	default:
		if err := EncodeCSV(&buf, records); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Hash returns the hex SHA3-256 digest of content.
func Hash(content []byte) string {
	sum := sha3.Sum256(content)
	return hex.EncodeToString(sum[:])
}
