package graphidx

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/graphidx/index"
	"github.com/hupe1980/graphidx/schema"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems.
type MetricsCollector interface {
	// RecordApply is called after each apply batch. changes is the number of
	// entity changes in the batch, duration the total time taken, err is nil
	// if both the apply phase and the aggregated close succeeded.
	RecordApply(mode index.UpdateMode, changes int, duration time.Duration, err error)

	// RecordCloseFailure is called once per index whose updater failed to
	// close during an aggregated close.
	RecordCloseFailure(d schema.Descriptor, err error)

	// RecordRefreshAll is called after each full-catalog refresh. indexes is
	// the number of indexes touched.
	RecordRefreshAll(indexes int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordApply(index.UpdateMode, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordCloseFailure(schema.Descriptor, error)             {}
func (NoopMetricsCollector) RecordRefreshAll(int, time.Duration, error)              {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ApplyCount        atomic.Int64
	ApplyErrors       atomic.Int64
	ApplyTotalNanos   atomic.Int64
	ChangesApplied    atomic.Int64
	CloseFailures     atomic.Int64
	RefreshCount      atomic.Int64
	RefreshErrors     atomic.Int64
	RefreshTotalNanos atomic.Int64
}

func (c *BasicMetricsCollector) RecordApply(_ index.UpdateMode, changes int, duration time.Duration, err error) {
	c.ApplyCount.Add(1)
	c.ChangesApplied.Add(int64(changes))
	c.ApplyTotalNanos.Add(int64(duration))
	if err != nil {
		c.ApplyErrors.Add(1)
	}
}

func (c *BasicMetricsCollector) RecordCloseFailure(schema.Descriptor, error) {
	c.CloseFailures.Add(1)
}

func (c *BasicMetricsCollector) RecordRefreshAll(_ int, duration time.Duration, err error) {
	c.RefreshCount.Add(1)
	c.RefreshTotalNanos.Add(int64(duration))
	if err != nil {
		c.RefreshErrors.Add(1)
	}
}

// PrometheusMetricsCollector exports apply and refresh metrics through a
// prometheus.Registerer.
type PrometheusMetricsCollector struct {
	applies       *prometheus.CounterVec
	applyDuration *prometheus.HistogramVec
	closeFailures *prometheus.CounterVec
	refreshes     *prometheus.CounterVec
	refreshSecs   prometheus.Histogram
}

// NewPrometheusMetricsCollector registers the graphidx metric families with
// reg and returns the collector.
func NewPrometheusMetricsCollector(reg prometheus.Registerer) *PrometheusMetricsCollector {
	c := &PrometheusMetricsCollector{
		applies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "graphidx",
			Subsystem: "indexing",
			Name:      "applies",
		}, []string{"mode", "result"}),
		applyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "graphidx",
			Subsystem: "indexing",
			Name:      "apply_duration_seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		closeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "graphidx",
			Subsystem: "indexing",
			Name:      "close_failures",
		}, []string{"index"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "graphidx",
			Subsystem: "indexing",
			Name:      "refreshes",
		}, []string{"result"}),
		refreshSecs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "graphidx",
			Subsystem: "indexing",
			Name:      "refresh_duration_seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(c.applies, c.applyDuration, c.closeFailures, c.refreshes, c.refreshSecs)
	return c
}

func (c *PrometheusMetricsCollector) RecordApply(mode index.UpdateMode, _ int, duration time.Duration, err error) {
	c.applies.WithLabelValues(mode.String(), result(err)).Inc()
	c.applyDuration.WithLabelValues(mode.String()).Observe(duration.Seconds())
}

func (c *PrometheusMetricsCollector) RecordCloseFailure(d schema.Descriptor, _ error) {
	c.closeFailures.WithLabelValues(d.String()).Inc()
}

func (c *PrometheusMetricsCollector) RecordRefreshAll(_ int, duration time.Duration, err error) {
	c.refreshes.WithLabelValues(result(err)).Inc()
	c.refreshSecs.Observe(duration.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// Compile-time interface checks
var (
	_ MetricsCollector = NoopMetricsCollector{}
	_ MetricsCollector = (*BasicMetricsCollector)(nil)
	_ MetricsCollector = (*PrometheusMetricsCollector)(nil)
)
