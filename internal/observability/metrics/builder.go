// Package metrics provides Prometheus metrics for the snapshot builder.
// In one-shot mode the metrics are recorded but never scraped; in scheduled
// mode they are exposed on the builder's /metrics endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BuilderMetrics tracks snapshot build runs and per-source outcomes.
//
// Metrics:
//   - builder_runs_total{status}: build runs by outcome (success/failure)
//   - builder_run_duration_seconds: duration histogram of one full build
//   - builder_source_warnings_total{source_id}: warnings attached per source
//   - builder_items_emitted: items in the most recent snapshot
//   - builder_last_success_timestamp: Unix time of the last successful build
type BuilderMetrics struct {
	RunsTotal            *prometheus.CounterVec
	RunDurationSeconds   prometheus.Histogram
	SourceWarningsTotal  *prometheus.CounterVec
	ItemsEmitted         prometheus.Gauge
	LastSuccessTimestamp prometheus.Gauge
}

// NewBuilderMetrics creates and registers the builder metrics on the given
// registerer. Tests pass a fresh prometheus.NewRegistry to stay isolated.
func NewBuilderMetrics(reg prometheus.Registerer) *BuilderMetrics {
	factory := promauto.With(reg)

	return &BuilderMetrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "builder_runs_total",
			Help: "Total number of snapshot build runs by status (success/failure)",
		}, []string{"status"}),

		RunDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "builder_run_duration_seconds",
			Help:    "Duration of one full snapshot build in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 180, 600},
		}),

		SourceWarningsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "builder_source_warnings_total",
			Help: "Total number of warnings attached to sources, by source id",
		}, []string{"source_id"}),

		ItemsEmitted: factory.NewGauge(prometheus.GaugeOpts{
			Name: "builder_items_emitted",
			Help: "Number of items in the most recently written snapshot",
		}),

		LastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "builder_last_success_timestamp",
			Help: "Unix timestamp of the last successful snapshot build",
		}),
	}
}

// RecordRun increments the run counter for the given status and observes the
// run duration.
func (m *BuilderMetrics) RecordRun(status string, duration time.Duration) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDurationSeconds.Observe(duration.Seconds())
}

// RecordSourceWarning counts one warning for the given source.
func (m *BuilderMetrics) RecordSourceWarning(sourceID string) {
	m.SourceWarningsTotal.WithLabelValues(sourceID).Inc()
}

// RecordSnapshot records the outcome of a successful build.
func (m *BuilderMetrics) RecordSnapshot(items int) {
	m.ItemsEmitted.Set(float64(items))
	m.LastSuccessTimestamp.SetToCurrentTime()
}
