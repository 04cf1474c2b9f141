// Package main provides the entry point for the nflstats CLI.
//
// nflstats scrapes player and team statistics tables from the NFL
// statistics site and writes one CSV (or XLSX) file per category.
//
// Usage:
//
//	nflstats scrape [--season N] [--level player,team]
//	nflstats backfill [--from 1970] [--to N]
//
// See --help for all available options.
package main

// main is the entry point for nflstats.
func main() {
	Execute()
}
