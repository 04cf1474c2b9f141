package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nao1215/nflstats/internal/model"
)

const namespace = "nflstats"

// Recorder collects scrape metrics in its own registry.
// It implements fetch.Observer.
type Recorder struct {
	registry *prometheus.Registry

	fetches       *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	exports       *prometheus.CounterVec
	rows          *prometheus.CounterVec
	failures      *prometheus.CounterVec
	runDuration   *prometheus.GaugeVec
	lastRun       *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetches_total",
				Help:      "Page fetches by outcome (ok, status, error).",
			},
			[]string{"outcome"},
		),
		fetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Duration of page fetches.",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exports_total",
				Help:      "Category files written.",
			},
			[]string{"level"},
		),
		rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_total",
				Help:      "Table rows written across all category files.",
			},
			[]string{"level"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "failures_total",
				Help:      "Skipped slices of work by stage.",
			},
			[]string{"stage"},
		),
		runDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of the last run of a season and level.",
			},
			[]string{"season", "level"},
		),
		lastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time the last run of a level finished.",
			},
			[]string{"level"},
		),
	}

	r.registry.MustRegister(
		r.fetches,
		r.fetchDuration,
		r.exports,
		r.rows,
		r.failures,
		r.runDuration,
		r.lastRun,
	)
	return r
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveFetch records one page fetch.
func (r *Recorder) ObserveFetch(outcome string, elapsed time.Duration) {
	r.fetches.WithLabelValues(outcome).Inc()
	r.fetchDuration.Observe(elapsed.Seconds())
}

// ObserveJob records the results of a finished job.
func (r *Recorder) ObserveJob(job *model.Job) {
	level := job.Config.Level.String()

	r.exports.WithLabelValues(level).Add(float64(len(job.Exports)))
	r.rows.WithLabelValues(level).Add(float64(job.RowCount()))
	for _, f := range job.Failures {
		r.failures.WithLabelValues(f.Stage).Inc()
	}

	r.runDuration.WithLabelValues(strconv.Itoa(job.Config.Season), level).Set(job.Duration().Seconds())
	if !job.FinishedAt.IsZero() {
		r.lastRun.WithLabelValues(level).Set(float64(job.FinishedAt.Unix()))
	}
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
