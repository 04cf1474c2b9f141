package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nao1215/nflstats/internal/crawler"
	"github.com/nao1215/nflstats/internal/export"
	"github.com/nao1215/nflstats/internal/extract"
	"github.com/nao1215/nflstats/internal/fetch"
	"github.com/nao1215/nflstats/internal/log"
	"github.com/nao1215/nflstats/internal/model"
)

// Step names, also used as model.Failure stages.
const (
	StepDiscover = "discover"
	StepOrganize = "organize"
	StepPaginate = "paginate"
	StepExport   = "export"
)

// DiscoverStep finds the category URLs of the job's level and season.
type DiscoverStep struct {
	discoverer *crawler.Discoverer
}

// NewDiscoverStep creates a DiscoverStep.
func NewDiscoverStep(discoverer *crawler.Discoverer) *DiscoverStep {
	return &DiscoverStep{discoverer: discoverer}
}

// Name returns the step name.
func (s *DiscoverStep) Name() string {
	return StepDiscover
}

// Do executes link discovery. A landing page failure is returned; group
// page failures are recorded on the job. A missing landing page usually
// means the site moved it, so the error names the setting to change.
func (s *DiscoverStep) Do(ctx context.Context, job *model.Job) error {
	result, err := s.discoverer.Discover(ctx, job.Config.Level, job.Config.Season)
	if result != nil {
		for _, f := range result.Failures {
			job.AddFailure(f)
		}
	}
	if fetch.IsStatus(err, http.StatusNotFound) {
		return fmt.Errorf("%s landing page not found, check %s.landingPath in the configuration: %w",
			job.Config.Level, job.Config.Level, err)
	}
	if err != nil {
		return err
	}
	job.CategoryURLs = result.URLs
	return nil
}

// OrganizeStep groups the discovered URLs by unit and category.
type OrganizeStep struct {
	logger *slog.Logger
}

// NewOrganizeStep creates an OrganizeStep.
func NewOrganizeStep(logger *slog.Logger) *OrganizeStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrganizeStep{logger: logger}
}

// Name returns the step name.
func (s *OrganizeStep) Name() string {
	return StepOrganize
}

// Do builds job.Links. URLs with an unexpected shape are recorded as
// failures and left out.
func (s *OrganizeStep) Do(ctx context.Context, job *model.Job) error {
	links, err := crawler.Organize(job.CategoryURLs, job.Config.Level)
	job.Links = links

	for _, e := range unwrapJoined(err) {
		failure := model.Failure{Stage: StepOrganize, Message: e.Error()}
		var structErr *crawler.StructureError
		if errors.As(e, &structErr) {
			failure.URL = structErr.URL
		}
		s.logger.WarnContext(ctx, "skipping category url", "error", e)
		job.AddFailure(failure)
	}

	if links.CategoryCount() == 0 {
		s.logger.WarnContext(ctx, "no categories to scrape")
	} else {
		s.logger.InfoContext(ctx, "organized categories",
			"units", len(links), "categories", links.CategoryCount())
	}
	return nil
}

// unwrapJoined flattens an errors.Join result into its parts.
func unwrapJoined(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// PaginateStep expands every category into its full page sequence.
type PaginateStep struct {
	paginator *crawler.Paginator
}

// NewPaginateStep creates a PaginateStep.
func NewPaginateStep(paginator *crawler.Paginator) *PaginateStep {
	return &PaginateStep{paginator: paginator}
}

// Name returns the step name.
func (s *PaginateStep) Name() string {
	return StepPaginate
}

// Do follows the next links of every category.
func (s *PaginateStep) Do(ctx context.Context, job *model.Job) error {
	failures, err := s.paginator.Expand(ctx, job.Links)
	for _, f := range failures {
		job.AddFailure(f)
	}
	return err
}

// HashLookup returns the content hash of the previous export of a
// category, or "" when there is none. *database.HistoryDB implements it.
type HashLookup interface {
	LatestHash(ctx context.Context, season int, level model.Level, unit, category string) (string, error)
}

// ExportStep extracts every page of every category and writes one file per
// category.
type ExportStep struct {
	// extractor parses category pages.
	extractor *extract.Extractor

	// writer merges and writes record sets.
	writer *export.Writer

	// hashes is optional; when set, unchanged exports are flagged.
	hashes HashLookup

	// logger for structured logging.
	logger *slog.Logger
}

// ExportStepOption configures an ExportStep.
type ExportStepOption func(*ExportStep)

// WithHashLookup flags exports whose content did not change since the
// previous export of the same category.
func WithHashLookup(hashes HashLookup) ExportStepOption {
	return func(s *ExportStep) {
		s.hashes = hashes
	}
}

// WithExportLogger sets a custom logger for the export step.
func WithExportLogger(logger *slog.Logger) ExportStepOption {
	return func(s *ExportStep) {
		s.logger = logger
	}
}

// NewExportStep creates an ExportStep.
func NewExportStep(extractor *extract.Extractor, writer *export.Writer, opts ...ExportStepOption) *ExportStep {
	s := &ExportStep{
		extractor: extractor,
		writer:    writer,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ExportStep) Name() string {
	return StepExport
}

// Do exports the categories in sorted unit and category order. A failing
// page or category is recorded and skipped.
func (s *ExportStep) Do(ctx context.Context, job *model.Job) error {
	for _, unit := range job.Links.Units() {
		for _, category := range job.Links.Categories(unit) {
			if err := ctx.Err(); err != nil {
				return err
			}
			ctx := log.WithScope(ctx, log.Scope{Unit: unit, Category: category})
			s.exportCategory(ctx, job, unit, category)
		}
	}
	return ctx.Err()
}

func (s *ExportStep) exportCategory(ctx context.Context, job *model.Job, unit, category string) {
	pages := job.Links.Pages(unit, category)
	sets, errs := s.extractor.ExtractAll(ctx, pages)
	for i, err := range errs {
		if err == nil || ctx.Err() != nil {
			continue
		}
		job.AddFailure(model.Failure{
			Stage:    "extract",
			Unit:     unit,
			Category: category,
			URL:      pages[i],
			Message:  err.Error(),
		})
	}
	if ctx.Err() != nil {
		return
	}

	target := export.Target{Run: job.Config, Unit: unit, Category: category}
	exp, err := s.writer.Write(ctx, target, sets)
	if errors.Is(err, export.ErrNoData) {
		s.logger.WarnContext(ctx, "no data found for category")
		return
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to export category", "error", err)
		job.AddFailure(model.Failure{
			Stage:    "write",
			Unit:     unit,
			Category: category,
			Message:  err.Error(),
		})
		return
	}

	if s.hashes != nil {
		previous, err := s.hashes.LatestHash(ctx, exp.Season, exp.Level, unit, category)
		if err != nil {
			s.logger.DebugContext(ctx, "cannot look up previous export", "error", err)
		} else if previous == exp.Hash {
			exp.Unchanged = true
			s.logger.InfoContext(ctx, "category unchanged since last export")
		}
	}

	job.Exports = append(job.Exports, exp)
}
