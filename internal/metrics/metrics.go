// Package metrics exposes Prometheus collectors for download runs.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Job outcome label values.
const (
	OutcomeSucceeded    = "succeeded"
	OutcomeFailed       = "failed"
	OutcomeLaunchFailed = "launch_failed"
)

// Probe result label values.
const (
	ProbeKnown   = "known"
	ProbeUnknown = "unknown"
)

var (
	// JobsTotal counts finished jobs by outcome.
	JobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hlsdl_jobs_total",
		Help: "Total download jobs by outcome",
	}, []string{"outcome"})

	// ProbesTotal counts duration probes by result.
	ProbesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hlsdl_probe_total",
		Help: "Total duration probes by result",
	}, []string{"result"})

	// JobDuration tracks wall-clock time per job
	JobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hlsdl_job_duration_seconds",
		Help:    "Wall-clock duration of download jobs",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~34m
	}, []string{"outcome"})

	// TelemetryEvents counts elapsed-time reports parsed from transfers.
	TelemetryEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hlsdl_telemetry_events_total",
		Help: "Total progress events parsed from transfer telemetry",
	})

	// JobsInFlight is the number of jobs currently running.
	JobsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hlsdl_jobs_in_flight",
		Help: "Number of download jobs currently running",
	})
)

// RecordJob counts a finished job and observes its duration.
func RecordJob(outcome string, seconds float64) {
	JobsTotal.WithLabelValues(outcome).Inc()
	JobDuration.WithLabelValues(outcome).Observe(seconds)
}

// RecordProbe counts a probe by whether it produced a duration.
func RecordProbe(known bool) {
	result := ProbeUnknown
	if known {
		result = ProbeKnown
	}
	ProbesTotal.WithLabelValues(result).Inc()
}

// WriteTextfile writes every registered metric to path in the text
// exposition format, for pickup by the node_exporter textfile collector.
// An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
