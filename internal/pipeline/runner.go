package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/nflstats/internal/log"
	"github.com/nao1215/nflstats/internal/model"
	"github.com/nao1215/nflstats/internal/season"
)

// Factory creates a fresh pipeline for a level.
type Factory func(level model.Level) (*Pipeline, error)

// JobHook is called after every finished job, e.g. to record it in the
// history database. A hook error is logged and does not stop the run.
type JobHook func(ctx context.Context, job *model.Job) error

// Runner scrapes seasons × levels one pipeline at a time.
//
// Design decision: Runs are strictly sequential. The site is scraped one
// request at a time, and a backfill over fifty seasons is a long-running
// batch job rather than a latency-sensitive one.
type Runner struct {
	// factory creates a fresh pipeline per (season, level).
	factory Factory

	// levels are scraped in order for every season.
	levels []model.Level

	// clock resolves the current season and week.
	clock season.Clock

	// outputDir is the root of the data directory.
	outputDir string

	// hooks run after every job.
	hooks []JobHook

	// logger is used for run-level logging.
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets a custom logger for the runner.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithSeasonClock sets the clock used to resolve the current season.
func WithSeasonClock(clock season.Clock) RunnerOption {
	return func(r *Runner) {
		r.clock = clock
	}
}

// WithJobHook adds a hook called after every job.
func WithJobHook(hook JobHook) RunnerOption {
	return func(r *Runner) {
		r.hooks = append(r.hooks, hook)
	}
}

// NewRunner creates a Runner scraping levels into outputDir.
func NewRunner(factory Factory, levels []model.Level, outputDir string, opts ...RunnerOption) *Runner {
	r := &Runner{
		factory:   factory,
		levels:    levels,
		outputDir: outputDir,
		clock:     season.SystemClock(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Current returns the current season and week.
func (r *Runner) Current() (currentSeason, week int) {
	return season.Resolve(r.clock.Now())
}

// Run scrapes every requested season for every configured level.
//
// A season outside 1970..current is reported and skipped. A season whose
// pipelines all failed is reported too. The returned jobs include partial
// ones; the returned error joins every reported problem, or is the
// context error when the run was cancelled.
func (r *Runner) Run(ctx context.Context, seasons []int) ([]*model.Job, error) {
	current, week := r.Current()
	r.logger.InfoContext(ctx, "resolved current season",
		"season", current, "week", week, "seasons", len(seasons), "levels", len(r.levels))

	start := time.Now()
	jobs := make([]*model.Job, 0, len(seasons)*len(r.levels))
	var errs []error

	for _, s := range seasons {
		if err := season.Validate(s, current); err != nil {
			r.logger.ErrorContext(ctx, "skipping season", "season", s, "error", err)
			errs = append(errs, err)
			continue
		}

		failed := 0
		for _, level := range r.levels {
			if err := ctx.Err(); err != nil {
				return jobs, err
			}

			job, err := r.runOne(ctx, s, level, current, week)
			if job != nil {
				jobs = append(jobs, job)
			}
			if ctx.Err() != nil {
				return jobs, ctx.Err()
			}
			if err != nil {
				failed++
			}
		}

		if failed > 0 && failed == len(r.levels) {
			errs = append(errs, fmt.Errorf("season %d: %w", s, ErrSeasonFailed))
		}
	}

	r.logger.InfoContext(ctx, "run complete",
		"jobs", len(jobs),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return jobs, errors.Join(errs...)
}

// runOne executes the pipeline of one (season, level).
func (r *Runner) runOne(ctx context.Context, s int, level model.Level, current, week int) (*model.Job, error) {
	ctx = log.WithScope(ctx, log.Scope{Season: s, Level: level.String()})

	p, err := r.factory(level)
	if err != nil {
		r.logger.ErrorContext(ctx, "cannot build pipeline", "error", err)
		return nil, err
	}

	job := model.NewJob(model.RunConfig{
		Season:        s,
		Level:         level,
		CurrentSeason: current,
		CurrentWeek:   week,
		OutputDir:     r.outputDir,
	})

	err = p.Execute(ctx, job)
	if err != nil && ctx.Err() == nil {
		r.logger.WarnContext(ctx, "scrape failed", "error", err)
	}

	for _, hook := range r.hooks {
		// Hooks get a context that survives cancellation so a partial job
		// is still recorded.
		if herr := hook(context.WithoutCancel(ctx), job); herr != nil {
			r.logger.WarnContext(ctx, "job hook failed", "error", herr)
		}
	}

	r.logger.InfoContext(ctx, "scrape finished",
		"files", len(job.Exports),
		"rows", job.RowCount(),
		"failures", len(job.Failures),
	)
	return job, err
}
