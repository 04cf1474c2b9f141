package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for nflstats.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nflstats",
		Short: "Scrape NFL player and team statistics into CSV files",
		Long: `nflstats scrapes the player and team statistics tables of the NFL
statistics site and writes one file per statistics category:

  data/<season>/player/[week<N>/]<category>.csv
  data/<season>/team/[week<N>/]<unit>/<category>.csv

The week directory is only used for the season in progress.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .nflstats.yaml in current, XDG config or home directory)")

	// Add subcommands
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewBackfillCmd())
	cmd.AddCommand(NewSeasonCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
