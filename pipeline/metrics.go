// SPDX-License-Identifier: MIT

package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects batch counters on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	Subjects          *prometheus.CounterVec   // status=ok|failed
	StageDuration     *prometheus.HistogramVec // stage
	InvariantFailures *prometheus.CounterVec   // invariant
	Streamlines       prometheus.Counter
	SkippedFibers     prometheus.Counter
	Edges             prometheus.Histogram
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Subjects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "connectome",
			Name:      "subjects_total",
			Help:      "Subjects processed, by outcome.",
		}, []string{"status"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "connectome",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each per-subject stage.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"stage"}),
		InvariantFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "connectome",
			Name:      "invariant_failures_total",
			Help:      "Invariants recorded as failed after retry.",
		}, []string{"invariant"}),
		Streamlines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "connectome",
			Name:      "streamlines_total",
			Help:      "Streamlines accumulated into graphs.",
		}),
		SkippedFibers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "connectome",
			Name:      "streamlines_skipped_total",
			Help:      "Malformed streamlines skipped.",
		}),
		Edges: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "connectome",
			Name:      "lcc_edges",
			Help:      "Undirected edge count of each subject's LCC.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 12),
		}),
	}
	m.Registry.MustRegister(m.Subjects, m.StageDuration, m.InvariantFailures, m.Streamlines, m.SkippedFibers, m.Edges)

	return m
}

// WriteTextfile exports the current values in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}

func (m *Metrics) observeStage(stage string, start time.Time) {
	if m != nil {
		m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}
