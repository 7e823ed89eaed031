// Package metrics provides Prometheus metrics for tidydir runs.
//
// tidydir is a batch job, so nothing is served over HTTP. The registry is
// written in the text exposition format for node_exporter's textfile
// collector after each run.
package metrics

import (
	"fmt"
	"time"

	"github.com/dendrascience/tidydir/tidy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder counts what a run did. It satisfies tidy.Recorder.
type Recorder struct {
	registry *prometheus.Registry

	archivedTotal   *prometheus.CounterVec
	deletedTotal    prometheus.Counter
	skippedTotal    *prometheus.CounterVec
	lastRunTime     prometheus.Gauge
	lastRunDuration prometheus.Gauge
}

var _ tidy.Recorder = (*Recorder)(nil)

// NewRecorder returns a Recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		archivedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tidydir_archived_total",
				Help: "Entries moved into the archive, by kind",
			},
			[]string{"kind"},
		),
		deletedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tidydir_deleted_total",
				Help: "Archived entries deleted after outliving the delete age",
			},
		),
		skippedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tidydir_skipped_total",
				Help: "Entries skipped because of an error, by phase",
			},
			[]string{"phase"},
		),
		lastRunTime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "tidydir_last_run_timestamp_seconds",
				Help: "Unix time the last run finished",
			},
		),
		lastRunDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "tidydir_last_run_duration_seconds",
				Help: "Wall time of the last run",
			},
		),
	}
}

func (r *Recorder) Archived(kind tidy.Kind) {
	r.archivedTotal.WithLabelValues(string(kind)).Inc()
}

func (r *Recorder) Deleted() {
	r.deletedTotal.Inc()
}

func (r *Recorder) Skipped(phase tidy.Phase) {
	r.skippedTotal.WithLabelValues(string(phase)).Inc()
}

// RunFinished stamps the end of a run that started at start.
func (r *Recorder) RunFinished(start, end time.Time) {
	r.lastRunTime.Set(float64(end.Unix()))
	r.lastRunDuration.Set(end.Sub(start).Seconds())
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes every metric to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
