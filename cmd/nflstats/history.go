package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/nflstats/internal/database"
	"github.com/nao1215/nflstats/internal/model"
	"github.com/nao1215/nflstats/internal/report"
)

// defaultHistoryLimit is the number of exports listed by default.
const defaultHistoryLimit = 50

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded exports",
		Long: `List the files written by previous scrape and backfill runs,
newest first, from the export history database.

Examples:
  # Show the latest exports
  nflstats history

  # Show team exports of 2023 as Markdown
  nflstats history --season 2023 --level team --markdown

  # Dump every recorded export as JSON
  nflstats history --limit 0 --json

  # List the recorded runs instead of their exports
  nflstats history --runs`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("season", "s", 0, "Only list exports of this season")
	cmd.Flags().StringP("level", "l", "", "Only list exports of this level (player, team)")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit, "Maximum number of exports to list (0 for all)")
	cmd.Flags().Bool("json", false, "Output as JSON")
	cmd.Flags().Bool("markdown", false, "Output as Markdown")
	cmd.Flags().Bool("runs", false, "List recorded runs instead of exports")
	cmd.Flags().String("history-dir", "", "Directory of the export history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("history-dir") {
		if cfg.HistoryDir, err = cmd.Flags().GetString("history-dir"); err != nil {
			return err
		}
	}

	filter, err := historyFilter(cmd)
	if err != nil {
		return err
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	asMarkdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if asJSON && asMarkdown {
		return errors.New("--json and --markdown cannot be used together")
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(cfg.HistoryDir, opts)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), "No exports recorded yet. Run 'nflstats scrape' first.")
			return nil
		}
		return err
	}
	defer func() { _ = db.Close() }()

	listRuns, err := cmd.Flags().GetBool("runs")
	if err != nil {
		return err
	}
	if listRuns {
		if asMarkdown {
			return errors.New("--runs does not support --markdown")
		}
		runs, err := db.ListRuns(cmd.Context(), filter.Limit)
		if err != nil {
			return err
		}
		return writeRunRecords(cmd.OutOrStdout(), runs, asJSON)
	}

	exports, err := db.ListExports(cmd.Context(), filter)
	if err != nil {
		return err
	}

	var w report.Writer
	switch {
	case asJSON:
		w = report.NewJSONWriter(cmd.OutOrStdout(), report.WithPrettyPrint())
	case asMarkdown:
		w = report.NewMarkdownWriter(cmd.OutOrStdout())
	default:
		w = report.NewTextWriter(cmd.OutOrStdout())
	}
	_, err = w.WriteHistory(exports)
	return err
}

// historyFilter builds the export filter from the command flags.
func historyFilter(cmd *cobra.Command) (database.ExportFilter, error) {
	var filter database.ExportFilter
	var err error

	if filter.Season, err = cmd.Flags().GetInt("season"); err != nil {
		return filter, err
	}
	if filter.Limit, err = cmd.Flags().GetInt("limit"); err != nil {
		return filter, err
	}
	if filter.Limit < 0 {
		return filter, fmt.Errorf("invalid limit %d", filter.Limit)
	}

	rawLevel, err := cmd.Flags().GetString("level")
	if err != nil {
		return filter, err
	}
	if rawLevel != "" {
		if filter.Level, err = model.ParseLevel(rawLevel); err != nil {
			return filter, err
		}
	}
	return filter, nil
}

// writeRunRecords prints stored runs as an aligned table or as JSON.
func writeRunRecords(w io.Writer, runs []database.RunRecord, asJSON bool) error {
	if asJSON {
		if runs == nil {
			runs = []database.RunRecord{}
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}

	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded yet.")
		return err
	}

	fmt.Fprintf(w, "%-5s %-6s %-6s %-4s %-20s %8s %6s %7s %8s %s\n",
		"ID", "SEASON", "LEVEL", "WEEK", "STARTED", "DURATION", "FILES", "ROWS", "FAILURES", "STATUS")
	for _, r := range runs {
		status := "complete"
		if r.Cancelled {
			status = "cancelled"
		} else if r.Failures > 0 {
			status = "partial"
		}
		week := "-"
		if r.Week > 0 {
			week = strconv.Itoa(r.Week)
		}
		fmt.Fprintf(w, "%-5d %-6d %-6s %-4s %-20s %8s %6d %7d %8d %s\n",
			r.ID, r.Season, r.Level, week,
			r.StartedAt.Local().Format(time.DateTime),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Second),
			r.Exports, r.Rows, r.Failures, status)
	}
	return nil
}
