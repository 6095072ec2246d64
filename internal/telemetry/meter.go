// Package telemetry bridges OpenTelemetry metrics into the Prometheus registry.
package telemetry

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	prometheusexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.pilab.hu/idstore/log"
)

// InitMeterProvider registers a global meter provider whose instruments are
// exported through reg. HTTP server metrics from otelgin land there too.
func InitMeterProvider(reg prometheus.Registerer) (*metric.MeterProvider, error) {
	exporter, err := prometheusexporter.New(
		prometheusexporter.WithRegisterer(reg),
		prometheusexporter.WithoutScopeInfo(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)

	return mp, nil
}

// Shutdown flushes and stops the meter provider.
func Shutdown(ctx context.Context, mp *metric.MeterProvider, logger log.Logger) {
	if mp == nil {
		return
	}
	if err := mp.Shutdown(ctx); err != nil {
		logger.Error(ctx, "error shutting down OpenTelemetry MeterProvider", err)
		return
	}
	logger.Debug(ctx, "OpenTelemetry MeterProvider shut down")
}
