package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/nflstats/internal/config"
	"github.com/nao1215/nflstats/internal/season"
)

// NewBackfillCmd creates the backfill command.
func NewBackfillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Scrape a range of completed seasons",
		Long: fmt.Sprintf(`Scrape every completed season in a range, one season at a time.

By default the range is %d through the previous season. A season that
fails is reported and the backfill moves on to the next one.

Examples:
  # Scrape every completed season
  nflstats backfill

  # Scrape the 2000s
  nflstats backfill --from 2000 --to 2009`, season.FirstSeason),
		Args: cobra.NoArgs,
		RunE: runBackfillCmd,
	}

	cmd.Flags().Int("from", 0,
		fmt.Sprintf("First season to scrape (default: %d)", season.FirstSeason))
	cmd.Flags().Int("to", 0,
		"Last season to scrape (default: the previous season)")
	addScrapeFlags(cmd)

	return cmd
}

// runBackfillCmd executes the backfill command.
func runBackfillCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.From, err = cmd.Flags().GetInt("from"); err != nil {
		return err
	}
	if cfg.To, err = cmd.Flags().GetInt("to"); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	return executeRun(cmd, cfg, func(current int) []int {
		return backfillSeasons(cfg, current)
	})
}

// backfillSeasons returns the seasons of the backfill range. Unset bounds
// default to the ends of the historic range.
func backfillSeasons(cfg *config.Config, current int) []int {
	historic := season.HistoricRange(current)
	if len(historic) == 0 {
		return nil
	}

	from, to := historic[0], historic[len(historic)-1]
	if cfg.From != 0 {
		from = cfg.From
	}
	if cfg.To != 0 {
		to = cfg.To
	}
	return season.Range(from, to)
}
