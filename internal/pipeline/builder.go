package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/nao1215/nflstats/internal/config"
	"github.com/nao1215/nflstats/internal/crawler"
	"github.com/nao1215/nflstats/internal/export"
	"github.com/nao1215/nflstats/internal/extract"
	"github.com/nao1215/nflstats/internal/fetch"
	"github.com/nao1215/nflstats/internal/model"
)

// Components are the collaborators shared by the scrape pipelines of every
// level. They are created once per command invocation.
type Components struct {
	// Fetcher retrieves pages. All pipelines share one client.
	Fetcher fetch.Fetcher

	// BaseURL is the statistics site root.
	BaseURL string

	// Markups holds the selectors of each level.
	Markups map[model.Level]config.LevelMarkup

	// MaxPages caps the page sequence of one category.
	MaxPages int

	// Writer writes category files.
	Writer *export.Writer

	// Hashes is optional; see WithHashLookup.
	Hashes HashLookup

	// Logger for structured logging.
	Logger *slog.Logger
}

// ComponentsFromConfig builds the components described by cfg.
func ComponentsFromConfig(cfg *config.Config, fetcher fetch.Fetcher, logger *slog.Logger) (Components, error) {
	writer, err := export.NewWriter(
		export.WithFormat(cfg.Format),
		export.WithLogger(logger),
	)
	if err != nil {
		return Components{}, err
	}
	return Components{
		Fetcher: fetcher,
		BaseURL: cfg.BaseURL,
		Markups: map[model.Level]config.LevelMarkup{
			model.LevelPlayer: cfg.Markup(model.LevelPlayer),
			model.LevelTeam:   cfg.Markup(model.LevelTeam),
		},
		MaxPages: cfg.MaxPages,
		Writer:   writer,
		Logger:   logger,
	}, nil
}

// Build creates the scrape pipeline of level.
func (c Components) Build(level model.Level) (*Pipeline, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	markup, ok := c.Markups[level]
	if !ok {
		return nil, fmt.Errorf("%w: %q", crawler.ErrUnknownLevel, level)
	}

	discoverer, err := crawler.NewDiscoverer(c.Fetcher, c.BaseURL, c.Markups,
		crawler.WithDiscovererLogger(logger))
	if err != nil {
		return nil, err
	}
	paginator := crawler.NewPaginator(c.Fetcher, markup.NextSelector,
		crawler.WithMaxPages(c.MaxPages),
		crawler.WithPaginatorLogger(logger))
	extractor := extract.NewExtractor(c.Fetcher, markup.DetailClass,
		extract.WithLogger(logger))

	exportOpts := []ExportStepOption{WithExportLogger(logger)}
	if c.Hashes != nil {
		exportOpts = append(exportOpts, WithHashLookup(c.Hashes))
	}

	p := New(WithLogger(logger))
	p.AddSteps(
		NewDiscoverStep(discoverer),
		NewOrganizeStep(logger),
		NewPaginateStep(paginator),
		NewExportStep(extractor, c.Writer, exportOpts...),
	)
	return p, nil
}
