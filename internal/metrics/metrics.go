// Package metrics exposes build statistics as Prometheus metrics, written to
// a node-exporter textfile after each build.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pable/go-tennis-metrics/internal/dataset"
	"github.com/pable/go-tennis-metrics/internal/session"
)

const namespace = "tennismetrics"

// Recorder owns a private registry and the build metrics registered on it.
type Recorder struct {
	registry *prometheus.Registry

	SessionsProcessed *prometheus.CounterVec
	PlayerRows        prometheus.Gauge
	Players           prometheus.Gauge
	BuildDuration     prometheus.Histogram
	LastBuild         prometheus.Gauge
}

// NewRecorder creates a Recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		SessionsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_processed_total",
			Help:      "Session folders processed, by outcome (used or skipped).",
		}, []string{"outcome"}),
		PlayerRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "player_rows",
			Help:      "Rows in the master dataset after the last build.",
		}),
		Players: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "players",
			Help:      "Distinct players in the master dataset.",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Wall time of a dataset build.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		LastBuild: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_build_timestamp_seconds",
			Help:      "Unix time of the last completed build.",
		}),
	}
	r.registry.MustRegister(r.SessionsProcessed, r.PlayerRows, r.Players, r.BuildDuration, r.LastBuild)
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe records one build result.
func (r *Recorder) Observe(res dataset.Result) {
	for _, rep := range res.Reports {
		outcome := "used"
		if rep.Status == session.StatusSkipped {
			outcome = "skipped"
		}
		r.SessionsProcessed.WithLabelValues(outcome).Inc()
	}
	r.PlayerRows.Set(float64(res.Dataset.Len()))
	r.Players.Set(float64(len(res.Dataset.Players())))
	r.BuildDuration.Observe(res.Duration.Seconds())
	if !res.BuiltAt.IsZero() {
		r.LastBuild.Set(float64(res.BuiltAt.Unix()))
	}
}

// WriteTextfile writes the current metric values to path in the text
// exposition format, replacing the file atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
