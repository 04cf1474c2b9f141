package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/nflstats/internal/fetch"
	"github.com/nao1215/nflstats/internal/model"
)

// FallbackColumn names the single column used when a table has data cells
// but no header cells.
const FallbackColumn = "Value"

// Extractor fetches category pages and parses their statistics tables.
type Extractor struct {
	// fetcher retrieves pages.
	fetcher fetch.Fetcher

	// detailClass is the class of the elements holding table cells.
	detailClass string

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates an Extractor reading cells under elements with
// detailClass.
func NewExtractor(fetcher fetch.Fetcher, detailClass string, opts ...Option) *Extractor {
	e := &Extractor{
		fetcher:     fetcher,
		detailClass: detailClass,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches pageURL and returns its table. A page that cannot be
// fetched yields an empty record set together with the fetch error.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (model.RecordSet, error) {
	page, err := e.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		e.logger.WarnContext(ctx, "unable to fetch page", "url", pageURL, "error", err)
		return model.RecordSet{}, err
	}

	records := Table(ctx, page.Doc, e.detailClass, e.logger)
	if records.Empty() {
		e.logger.DebugContext(ctx, "page has no table rows", "url", pageURL)
	}
	return records, nil
}

// ExtractAll extracts every page of a sequence in order. Pages that fail
// are reported through the returned errors, indexed like pages, and
// contribute an empty record set.
func (e *Extractor) ExtractAll(ctx context.Context, pages model.PageSequence) ([]model.RecordSet, []error) {
	sets := make([]model.RecordSet, 0, len(pages))
	errs := make([]error, len(pages))

	for i, pageURL := range pages {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			return sets, errs
		}
		records, err := e.Extract(ctx, pageURL)
		errs[i] = err
		sets = append(sets, records)
	}
	return sets, errs
}

// Table parses the statistics table of doc.
//
// Every element with detailClass contributes its th texts to the column
// list and its td texts to a flat cell list, both trimmed and in document
// order. Cells are then cut into rows of len(columns). Without header
// cells the table is read as one column named FallbackColumn. Cells left
// over after the last complete row are dropped.
func Table(ctx context.Context, doc *goquery.Document, detailClass string, logger *slog.Logger) model.RecordSet {
	if logger == nil {
		logger = slog.Default()
	}

	var columns, cells []string
	doc.Find(classSelector(detailClass)).Each(func(_ int, s *goquery.Selection) {
		s.Find("th").Each(func(_ int, th *goquery.Selection) {
			columns = append(columns, strings.TrimSpace(th.Text()))
		})
		s.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
	})

	if len(cells) == 0 {
		return model.RecordSet{Columns: columns}
	}

	if len(columns) == 0 {
		logger.WarnContext(ctx, "table has no header cells, using a single column",
			"column", FallbackColumn, "cells", len(cells))
		columns = []string{FallbackColumn}
	}

	width := len(columns)
	if rest := len(cells) % width; rest != 0 {
		logger.WarnContext(ctx, "dropping incomplete trailing row",
			"columns", width, "cells", len(cells), "dropped", rest)
		cells = cells[:len(cells)-rest]
	}

	rows := make([][]string, 0, len(cells)/width)
	for i := 0; i < len(cells); i += width {
		row := make([]string, width)
		copy(row, cells[i:i+width])
		rows = append(rows, row)
	}
	return model.RecordSet{Columns: columns, Rows: rows}
}

// classSelector returns a CSS selector matching elements that carry class.
func classSelector(class string) string {
	return "." + strings.TrimPrefix(class, ".")
}
