// Package database records the history of scrape runs in SQLite.
//
// Every run of the scraper stores one row per (season, level) run and one
// row per exported category file, including a SHA3-256 hash of the file
// content. The history answers "when was this category last written and did
// it change" without re-reading the data directory.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because the
// history is a single local file next to the user's data, and the CGO-free
// driver keeps the binary easy to cross-compile.
package database
