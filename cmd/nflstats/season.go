package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/nflstats/internal/season"
)

// dateLayout is the layout of the --date flag.
const dateLayout = "2006-01-02"

// NewSeasonCmd creates the season command.
func NewSeasonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "season",
		Short: "Print the current season and week",
		Long: `Print the season and week that a scrape run on the given day would use.

A season starts on September 7. Dates from January through May belong to
the previous year's season, and the week counts seven-day periods since
the start of the season.

Examples:
  nflstats season
  nflstats season --date 2024-03-01`,
		Args: cobra.NoArgs,
		RunE: runSeasonCmd,
	}

	cmd.Flags().StringP("date", "d", "",
		"Day to resolve, as YYYY-MM-DD (default: today in US Eastern time)")

	return cmd
}

// runSeasonCmd executes the season command.
func runSeasonCmd(cmd *cobra.Command, _ []string) error {
	raw, err := cmd.Flags().GetString("date")
	if err != nil {
		return err
	}

	today := season.SystemClock().Now()
	if raw != "" {
		today, err = time.Parse(dateLayout, raw)
		if err != nil {
			return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", raw, err)
		}
	}

	s, week := season.Resolve(today)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "date:   %s\n", today.Format(dateLayout))
	fmt.Fprintf(out, "season: %d\n", s)
	fmt.Fprintf(out, "week:   %d\n", week)
	return nil
}
