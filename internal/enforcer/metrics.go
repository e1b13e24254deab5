package enforcer

import (
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Policy run outcomes used as the metrics label.
const (
	OutcomeClean   = "clean"   // traversal finished with no failures
	OutcomePartial = "partial" // traversal finished with at least one failure
	OutcomeSkipped = "skipped" // directory missing or not accessible
)

// Metrics tracks enforcement activity in Prometheus collectors.
type Metrics struct {
	registry       prometheus.Registerer
	filesDeleted   prometheus.Counter
	deleteFailures prometheus.Counter
	policyRuns     *prometheus.CounterVec
	runDuration    prometheus.Histogram
}

// InitMetrics registers the enforcement collectors on reg. A nil reg uses
// the default registerer.
func InitMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		registry: reg,
		filesDeleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_deleted_total",
				Help:      "Total number of files deleted by retention policies",
			},
		),
		deleteFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "delete_failures_total",
				Help:      "Total number of failed deletion attempts, including failed subdirectory branches",
			},
		),
		policyRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "policy_runs_total",
				Help:      "Total number of policy traversals by outcome",
			},
			[]string{"outcome"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "policy_run_duration_seconds",
				Help:      "Duration of policy traversals",
				Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
			},
		),
	}

	reg.MustRegister(
		m.filesDeleted,
		m.deleteFailures,
		m.policyRuns,
		m.runDuration,
	)

	return m
}

// RecordPolicyRun records one finished policy traversal.
func (m *Metrics) RecordPolicyRun(outcome string, duration time.Duration) {
	m.policyRuns.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(duration.Seconds())
}

// AddDeleted adds to the deleted-files counter.
func (m *Metrics) AddDeleted(n int) {
	m.filesDeleted.Add(float64(n))
}

// AddFailures adds to the failed-deletions counter.
func (m *Metrics) AddFailures(n int) {
	m.deleteFailures.Add(float64(n))
}

// WriteTextfile writes all metrics gathered from g to path in the Prometheus
// text exposition format, for pickup by the node_exporter textfile collector.
// The file is written to a temp name first and renamed so the collector never
// reads a partial file.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("failed to encode metrics: %w", err)
		}
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close metrics file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move metrics file into place: %w", err)
	}

	return nil
}
