// Package crawler discovers the statistics category pages of a level and
// expands each category into its page sequence.
//
// # Components
//
//   - Discoverer: landing page -> category group pages -> category URLs,
//     rendered for the requested season
//   - Organize: category URLs -> unit -> category -> seed URL
//   - Paginator: seed URL -> every page reachable through "next page" links
//
// All fetching is sequential: one request is outstanding at a time.
// A failed fetch skips the smallest unit of work it belongs to (one group
// page, or the rest of one category's pages) and is reported back to the
// caller as a model.Failure; it never aborts the run.
//
// # Usage
//
//	d := crawler.NewDiscoverer(client, cfg.BaseURL, markups)
//	found, err := d.Discover(ctx, model.LevelTeam, 2023)
//	links, err := crawler.Organize(found.URLs, model.LevelTeam)
//	p := crawler.NewPaginator(client, markup.NextSelector)
//	failures := p.Expand(ctx, links)
package crawler
