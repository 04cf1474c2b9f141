package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/nflstats/internal/config"
	"github.com/nao1215/nflstats/internal/fetch"
	"github.com/nao1215/nflstats/internal/model"
)

// Discovery is the result of link discovery for one level.
type Discovery struct {
	// URLs are the category page URLs rendered for the requested season,
	// in discovery order without duplicates.
	URLs []string

	// Failures are the group pages that could not be fetched.
	Failures []model.Failure
}

// Discoverer finds the category pages of a statistics level.
//
// Discovery is a two-level drill-down: the landing page links to category
// group pages, and each group page carries tabs linking to the final
// category pages.
type Discoverer struct {
	// fetcher retrieves pages.
	fetcher fetch.Fetcher

	// baseURL is the site root the landing paths resolve against.
	baseURL *url.URL

	// markups holds the selectors of each level.
	markups map[model.Level]config.LevelMarkup

	// logger for structured logging.
	logger *slog.Logger
}

// DiscovererOption configures a Discoverer.
type DiscovererOption func(*Discoverer)

// WithDiscovererLogger sets a custom logger.
func WithDiscovererLogger(logger *slog.Logger) DiscovererOption {
	return func(d *Discoverer) {
		d.logger = logger
	}
}

// NewDiscoverer creates a Discoverer for the site at baseURL.
func NewDiscoverer(fetcher fetch.Fetcher, baseURL string, markups map[model.Level]config.LevelMarkup, opts ...DiscovererOption) (*Discoverer, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	d := &Discoverer{
		fetcher: fetcher,
		baseURL: base,
		markups: markups,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// LandingURL returns the landing page URL of level.
func (d *Discoverer) LandingURL(level model.Level) (string, error) {
	markup, ok := d.markups[level]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
	ref, err := url.Parse(markup.LandingPath)
	if err != nil {
		return "", fmt.Errorf("invalid landing path %q: %w", markup.LandingPath, err)
	}
	return d.baseURL.ResolveReference(ref).String(), nil
}

// Discover returns the category URLs of level for season.
//
// A failure to fetch the landing page, or a landing page without any group
// links, is returned as an error: nothing can be scraped for the level.
// A group page that cannot be fetched is logged, recorded in
// Discovery.Failures and skipped.
func (d *Discoverer) Discover(ctx context.Context, level model.Level, season int) (*Discovery, error) {
	markup, ok := d.markups[level]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}

	landingURL, err := d.LandingURL(level)
	if err != nil {
		return nil, err
	}

	landing, err := d.fetcher.Fetch(ctx, landingURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s landing page: %w", level, err)
	}

	groups := anchors(landing, landing.Doc.Selection, markup.GroupSelector, d.logger)
	if len(groups) == 0 {
		return nil, &StructureError{
			URL:    landingURL,
			Reason: fmt.Sprintf("no category group links match %q", markup.GroupSelector),
		}
	}
	d.logger.DebugContext(ctx, "found category groups", "count", len(groups))

	result := &Discovery{URLs: make([]string, 0)}
	seen := make(map[string]bool)

	for _, groupURL := range groups {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		group, err := d.fetcher.Fetch(ctx, groupURL)
		if err != nil {
			d.logger.WarnContext(ctx, "skipping category group", "url", groupURL, "error", err)
			result.Failures = append(result.Failures, model.Failure{
				Stage:   "discover",
				URL:     groupURL,
				Message: err.Error(),
			})
			continue
		}

		for _, categoryURL := range anchors(group, group.Doc.Selection, markup.CategorySelector, d.logger) {
			rendered := d.render(ctx, categoryURL, season)
			if seen[rendered] {
				continue
			}
			seen[rendered] = true
			result.URLs = append(result.URLs, rendered)
		}
	}

	d.logger.InfoContext(ctx, "discovered category pages", "count", len(result.URLs))
	return result, nil
}

// render substitutes season into a category URL. URLs without a season
// path segment are returned unchanged.
func (d *Discoverer) render(ctx context.Context, rawURL string, season int) string {
	tpl, err := model.ParseURLTemplate(rawURL)
	if err != nil {
		d.logger.WarnContext(ctx, "cannot parse category url", "url", rawURL, "error", err)
		return rawURL
	}
	rendered, err := tpl.WithSeason(season)
	if err != nil {
		if errors.Is(err, model.ErrNoSeasonSegment) {
			d.logger.WarnContext(ctx, "category url has no season segment, using as is", "url", rawURL)
		}
		return rawURL
	}
	return rendered
}

// anchors returns the absolute href of every element matching selector
// under sel, in document order without duplicates. Elements without an
// href are skipped.
func anchors(page *fetch.Page, sel *goquery.Selection, selector string, logger *slog.Logger) []string {
	seen := make(map[string]bool)
	urls := make([]string, 0)

	sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		abs, err := page.Resolve(href)
		if err != nil {
			logger.Debug("skipping malformed link", "href", href, "error", err)
			return
		}
		if seen[abs] {
			return
		}
		seen[abs] = true
		urls = append(urls, abs)
	})
	return urls
}
