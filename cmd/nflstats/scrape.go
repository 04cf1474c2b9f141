package main

import (
	"github.com/spf13/cobra"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape one season",
		Long: `Scrape every statistics category of one season.

Without --season the season in progress is scraped, and its files are
written under a week<N> directory so weekly snapshots do not overwrite
each other. Completed seasons are written directly under their level.

Examples:
  # Scrape the current season, player and team statistics
  nflstats scrape

  # Scrape team statistics of 2019 as Excel workbooks
  nflstats scrape --season 2019 --level team --format xlsx

  # Write a Markdown summary and a Prometheus textfile
  nflstats scrape --summary summary.md --metrics-file /var/lib/node_exporter/nflstats.prom`,
		Args: cobra.NoArgs,
		RunE: runScrapeCmd,
	}

	cmd.Flags().IntP("season", "s", 0,
		"Season to scrape (default: the current season)")
	addScrapeFlags(cmd)

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	cfg.Season, err = cmd.Flags().GetInt("season")
	if err != nil {
		return err
	}

	return executeRun(cmd, cfg, func(current int) []int {
		if cfg.Season == 0 {
			return []int{current}
		}
		return []int{cfg.Season}
	})
}
