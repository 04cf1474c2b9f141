package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/nflstats/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the job state
// accumulated by previous steps.
type Step interface {
	// Do executes the pipeline step.
	// Returns an error if the step fails critically; skipped slices of work
	// should be recorded with job.AddFailure and return nil.
	Do(ctx context.Context, job *model.Job) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool

	// now stamps the job start and finish times.
	now func() time.Time
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails.
//
// The scrape pipeline keeps the default: when discovery fails there is
// nothing for the later steps to work on.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// WithClock sets the function used to stamp job times.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
//
// Cancellation is checked before each step; steps check it themselves
// between fetches. A cancelled job is marked Cancelled and keeps whatever
// the steps produced so far.
//
// Returns the first step error. With continueOnError the remaining steps
// still run before it is returned.
func (p *Pipeline) Execute(ctx context.Context, job *model.Job) error {
	job.StartedAt = p.now()
	defer func() {
		job.FinishedAt = p.now()
	}()

	var firstErr error
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.WarnContext(ctx, "pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			job.Cancelled = true
			return ctx.Err()
		default:
		}

		p.logger.InfoContext(ctx, "executing step", "step", step.Name())

		err := step.Do(ctx, job)
		job.PerformedSteps = append(job.PerformedSteps, step.Name())

		if err != nil {
			if ctx.Err() != nil {
				job.Cancelled = true
				return ctx.Err()
			}
			p.logger.ErrorContext(ctx, "step failed",
				"step", step.Name(),
				"error", err,
			)
			job.AddFailure(model.Failure{
				Stage:   step.Name(),
				Message: err.Error(),
			})
			if !p.continueOnError {
				return err
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		p.logger.DebugContext(ctx, "step completed", "step", step.Name())
	}

	return firstErr
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
