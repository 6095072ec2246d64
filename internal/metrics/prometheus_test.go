package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.pilab.hu/idstore/internal/metrics"
	"go.pilab.hu/idstore/log"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, log.NewNop())

	m.ObserveSweep("is4_persisted_grants", 5, time.Second, nil)
	m.ObserveSweep("is4_persisted_grants", 2, time.Second, errors.New("boom"))
	m.CacheHit("client")
	m.CacheMiss("client")
	m.CacheMiss("client")
	m.ObserveRun(time.Unix(1700000000, 0))

	assert.InDelta(t, 7, testutil.ToFloat64(m.RecordsRemoved.WithLabelValues("is4_persisted_grants")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SweepErrors.WithLabelValues("is4_persisted_grants")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.CacheRequests.WithLabelValues("client", "miss")), 0)
	assert.InDelta(t, 1700000000, testutil.ToFloat64(m.LastSweep), 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestMetrics_DoubleRegistrationDoesNotPanic(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg, log.NewNop())
	assert.NotPanics(t, func() { metrics.New(reg, log.NewNop()) })
}
