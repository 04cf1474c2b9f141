package crawler

import (
	"context"
	"log/slog"

	"github.com/nao1215/nflstats/internal/fetch"
	"github.com/nao1215/nflstats/internal/model"
)

// DefaultMaxPages is the page cap per category when none is configured.
const DefaultMaxPages = 100

// Paginator follows "next page" links of category tables.
type Paginator struct {
	// fetcher retrieves pages.
	fetcher fetch.Fetcher

	// nextSelector matches the next page anchor.
	nextSelector string

	// maxPages caps the length of a page sequence.
	maxPages int

	// logger for structured logging.
	logger *slog.Logger
}

// PaginatorOption configures a Paginator.
type PaginatorOption func(*Paginator)

// WithMaxPages caps the number of pages followed per category.
// Values below 1 are ignored.
func WithMaxPages(n int) PaginatorOption {
	return func(p *Paginator) {
		if n > 0 {
			p.maxPages = n
		}
	}
}

// WithPaginatorLogger sets a custom logger.
func WithPaginatorLogger(logger *slog.Logger) PaginatorOption {
	return func(p *Paginator) {
		p.logger = logger
	}
}

// NewPaginator creates a Paginator that follows anchors matching nextSelector.
func NewPaginator(fetcher fetch.Fetcher, nextSelector string, opts ...PaginatorOption) *Paginator {
	p := &Paginator{
		fetcher:      fetcher,
		nextSelector: nextSelector,
		maxPages:     DefaultMaxPages,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Paginate returns the page sequence starting at seed.
//
// Every page of the sequence is fetched once to look for a next link. The
// walk stops when a page has no next link, when a next link points at a
// page already in the sequence, or when the page cap is reached.
//
// When a page cannot be fetched the sequence collected so far is returned
// together with the error. The failing page stays in the sequence so the
// extractor reports it again.
func (p *Paginator) Paginate(ctx context.Context, seed string) (model.PageSequence, error) {
	pages := model.PageSequence{seed}
	visited := map[string]bool{seed: true}
	current := seed

	for {
		if err := ctx.Err(); err != nil {
			return pages, err
		}

		page, err := p.fetcher.Fetch(ctx, current)
		if err != nil {
			return pages, err
		}

		next, ok := p.nextLink(page)
		if !ok {
			return pages, nil
		}
		if visited[next] {
			p.logger.WarnContext(ctx, "pagination cycle detected", "url", current, "next", next)
			return pages, nil
		}
		if len(pages) >= p.maxPages {
			p.logger.WarnContext(ctx, "page cap reached", "seed", seed, "max_pages", p.maxPages)
			return pages, nil
		}

		visited[next] = true
		pages = append(pages, next)
		current = next
	}
}

// Expand replaces every seed-only sequence of links with its full page
// sequence. Categories are walked in sorted order. A failing category keeps
// the pages collected before the failure and is reported in the returned
// failures; the remaining categories are still walked.
func (p *Paginator) Expand(ctx context.Context, links model.LinkMap) ([]model.Failure, error) {
	var failures []model.Failure

	for _, unit := range links.Units() {
		for _, category := range links.Categories(unit) {
			if err := ctx.Err(); err != nil {
				return failures, err
			}

			ctx := withScope(ctx, unit, category)
			seed := links.Pages(unit, category).Seed()

			pages, err := p.Paginate(ctx, seed)
			links.Replace(unit, category, pages)
			if err != nil {
				if ctx.Err() != nil {
					return failures, ctx.Err()
				}
				p.logger.WarnContext(ctx, "pagination stopped early",
					"pages", len(pages), "error", err)
				failures = append(failures, model.Failure{
					Stage:    "paginate",
					Unit:     unit,
					Category: category,
					URL:      pages[len(pages)-1],
					Message:  err.Error(),
				})
				continue
			}
			p.logger.DebugContext(ctx, "paginated category", "pages", len(pages))
		}
	}
	return failures, nil
}

// nextLink returns the absolute URL of the page's next link.
func (p *Paginator) nextLink(page *fetch.Page) (string, bool) {
	href, ok := page.Doc.Find(p.nextSelector).First().Attr("href")
	if !ok || href == "" {
		return "", false
	}
	abs, err := page.Resolve(href)
	if err != nil {
		p.logger.Debug("ignoring malformed next link", "href", href, "error", err)
		return "", false
	}
	return abs, true
}
