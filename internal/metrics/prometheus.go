// Package metrics exposes the Prometheus collectors of idstore.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.pilab.hu/idstore/log"
)

const namespace = "idstore"

// Metrics holds the collectors. The zero value is not usable; build it with New.
type Metrics struct {
	RecordsRemoved *prometheus.CounterVec
	SweepErrors    *prometheus.CounterVec
	SweepDuration  *prometheus.HistogramVec
	LastSweep      prometheus.Gauge
	CacheRequests  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. Registration
// failures are logged, leaving the collectors usable but unexported.
func New(reg prometheus.Registerer, logger log.Logger) *Metrics {
	if logger == nil {
		logger = log.NewNop()
	}

	m := &Metrics{
		RecordsRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cleanup_records_removed_total",
			Help:      "Total number of expired records removed by the token cleanup.",
		}, []string{"collection"}),
		SweepErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cleanup_sweep_errors_total",
			Help:      "Total number of failed cleanup sweeps.",
		}, []string{"collection"}),
		SweepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cleanup_sweep_duration_seconds",
			Help:      "Duration of a cleanup sweep over one collection.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"collection"}),
		LastSweep: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cleanup_last_run_timestamp_seconds",
			Help:      "Unix time of the last completed cleanup run.",
		}),
		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Configuration cache lookups by cache and result.",
		}, []string{"cache", "result"}),
	}

	if reg == nil {
		logger.Warn(context.Background(), "Prometheus registry is nil, metrics are not exported")
		return m
	}

	for name, c := range map[string]prometheus.Collector{
		"cleanup_records_removed_total":      m.RecordsRemoved,
		"cleanup_sweep_errors_total":         m.SweepErrors,
		"cleanup_sweep_duration_seconds":     m.SweepDuration,
		"cleanup_last_run_timestamp_seconds": m.LastSweep,
		"cache_requests_total":               m.CacheRequests,
	} {
		if err := reg.Register(c); err != nil {
			logger.Warn(context.Background(), "failed to register metric", log.Fields{"metric": name, "error": err.Error()})
		}
	}

	return m
}

// ObserveSweep records one sweep over collection.
func (m *Metrics) ObserveSweep(collection string, removed int, elapsed time.Duration, err error) {
	m.RecordsRemoved.WithLabelValues(collection).Add(float64(removed))
	m.SweepDuration.WithLabelValues(collection).Observe(elapsed.Seconds())
	if err != nil {
		m.SweepErrors.WithLabelValues(collection).Inc()
	}
}

// ObserveRun marks the end of a full cleanup run.
func (m *Metrics) ObserveRun(at time.Time) {
	m.LastSweep.Set(float64(at.Unix()))
}

// CacheHit counts a lookup served from cache.
func (m *Metrics) CacheHit(cache string) {
	m.CacheRequests.WithLabelValues(cache, "hit").Inc()
}

// CacheMiss counts a lookup that went to the store.
func (m *Metrics) CacheMiss(cache string) {
	m.CacheRequests.WithLabelValues(cache, "miss").Inc()
}
