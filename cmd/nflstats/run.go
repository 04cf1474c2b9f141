package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/nflstats/internal/config"
	"github.com/nao1215/nflstats/internal/database"
	"github.com/nao1215/nflstats/internal/fetch"
	"github.com/nao1215/nflstats/internal/metrics"
	"github.com/nao1215/nflstats/internal/model"
	"github.com/nao1215/nflstats/internal/pipeline"
	"github.com/nao1215/nflstats/internal/report"
)

// errNoSeasons is returned when the requested season range is empty.
var errNoSeasons = errors.New("no seasons to scrape")

// seasonPicker returns the seasons to scrape given the current season.
type seasonPicker func(current int) []int

// executeRun wires the fetch client, history database, metrics and
// pipelines described by cfg and scrapes the seasons chosen by pick.
// It always prints a summary of the jobs that ran, even when the run was
// interrupted.
func executeRun(cmd *cobra.Command, cfg *config.Config, pick seasonPicker) error {
	logger := setupLogger(cfg)

	// Cancel on Ctrl+C or SIGTERM; partial jobs are still reported.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	levels, err := cfg.ParsedLevels()
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()
	client := fetch.NewClient(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithObserver(recorder),
		fetch.WithLogger(logger),
	)

	components, err := pipeline.ComponentsFromConfig(cfg, client, logger)
	if err != nil {
		return err
	}

	runnerOpts := []pipeline.RunnerOption{
		pipeline.WithRunnerLogger(logger),
		pipeline.WithJobHook(func(_ context.Context, job *model.Job) error {
			recorder.ObserveJob(job)
			return nil
		}),
	}

	if cfg.SaveHistory {
		db, err := database.Open(cfg.HistoryDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer func() {
			if cerr := db.Close(); cerr != nil {
				logger.Warn("failed to close history database", "error", cerr)
			}
		}()
		logger.Debug("recording exports", "database", db.Path())

		components.Hashes = db
		runnerOpts = append(runnerOpts, pipeline.WithJobHook(func(ctx context.Context, job *model.Job) error {
			_, err := db.SaveRun(ctx, job)
			return err
		}))
	}

	runner := pipeline.NewRunner(components.Build, levels, cfg.OutputDir, runnerOpts...)
	current, _ := runner.Current()
	seasons := pick(current)
	if len(seasons) == 0 {
		return errNoSeasons
	}

	jobs, runErr := runner.Run(ctx, seasons)
	if errors.Is(runErr, context.Canceled) {
		logger.Warn("scrape interrupted, reporting partial results")
	}

	if err := writeSummaries(cmd, cfg, jobs, logger); err != nil {
		return errors.Join(runErr, err)
	}

	if cfg.MetricsFile != "" {
		if err := writeMetrics(cfg.MetricsFile, recorder); err != nil {
			return errors.Join(runErr, err)
		}
		logger.Info("metrics written", "path", cfg.MetricsFile)
	}

	return runErr
}

// writeSummaries prints the text summary to stdout and, when requested,
// writes the Markdown summary file.
func writeSummaries(cmd *cobra.Command, cfg *config.Config, jobs []*model.Job, logger *slog.Logger) error {
	writers := []report.Writer{
		report.NewTextWriter(cmd.OutOrStdout(), report.WithVerbose(cfg.Verbose)),
	}

	if cfg.SummaryFile != "" {
		f, err := os.Create(cfg.SummaryFile)
		if err != nil {
			return fmt.Errorf("failed to create summary file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				logger.Warn("failed to close summary file", "error", cerr)
			}
		}()
		writers = append(writers, report.NewMarkdownWriter(f))
	}

	if _, err := report.NewMultiWriter(writers...).WriteRuns(report.NewRunSummaries(jobs)); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if cfg.SummaryFile != "" {
		logger.Info("summary written", "path", cfg.SummaryFile)
	}
	return nil
}

// writeMetrics writes the Prometheus textfile, creating its directory.
func writeMetrics(path string, recorder *metrics.Recorder) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
	}
	if err := recorder.WriteTextfile(path); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
