package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

var ErrUnknownMetricsExporter = errors.New("[xtree] unknown metrics exporter")

type MetricsExporter string

const (
	StdoutMetricsExporter     MetricsExporter = "stdout"
	PrometheusMetricsExporter MetricsExporter = "prometheus"
	NoopMetricsExporter       MetricsExporter = "none"
)

// ShutdownCallback flushes and stops the meter provider.
type ShutdownCallback func(ctx context.Context) error

func noopShutdown(context.Context) error {
	return nil
}

// NewConsoleMetricsExporter serves for test/dev environment.
// The exported metrics are encoded as JSON periodically.
func NewConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (ShutdownCallback, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// NewPrometheusMetricsExporter serves for the product environment and
// the stats metrics are fetched by HTTP.
// The metrics are registered into the prometheus default registerer.
func NewPrometheusMetricsExporter() (ShutdownCallback, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// SetupMetricsExporter installs the global meter provider by the
// exporter kind.
func SetupMetricsExporter(kind MetricsExporter, interval time.Duration, opts ...stdoutmetric.Option) (ShutdownCallback, error) {
	switch kind {
	case StdoutMetricsExporter:
		return NewConsoleMetricsExporter(interval, interval, opts...)
	case PrometheusMetricsExporter:
		return NewPrometheusMetricsExporter()
	case NoopMetricsExporter, "":
		return noopShutdown, nil
	default:
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMetricsExporter, kind)
}
