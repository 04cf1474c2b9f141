// Package log provides the structured logger used by nflstats, built on top
// of the standard slog package.
//
// This package extends slog to provide:
//   - Configurable log levels with verbose mode support
//   - Text or JSON output
//   - Scrape scope attributes (season, level, unit, category) carried on the
//     context and added to every record logged with that context
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, log.Options{Verbose: true})
//	slog.SetDefault(logger)
//
//	ctx = log.WithScope(ctx, log.Scope{Season: 2024, Level: "team"})
//	logger.WarnContext(ctx, "page fetch failed", "url", u)
//	// ... season=2024 level=team url=...
package log
