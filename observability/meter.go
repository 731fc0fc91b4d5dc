package observability

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	apperrors "github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns defaults for local development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a global meter provider exporting over OTLP/HTTP.
// The caller must shut the provider down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(ctx, config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns the seqkit meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(TracerName)
}

// QueryMetrics holds the instruments recorded once per query traversal.
type QueryMetrics struct {
	traversals metric.Int64Counter
	elements   metric.Int64Counter
	duration   metric.Float64Histogram
	errors     metric.Int64Counter
}

// NewQueryMetrics creates the query instruments on meter.
func NewQueryMetrics(meter metric.Meter) (*QueryMetrics, error) {
	traversals, err := meter.Int64Counter("query.traversals",
		metric.WithDescription("Completed query traversals"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating query.traversals counter: %w", err)
	}

	elements, err := meter.Int64Counter("query.elements",
		metric.WithDescription("Elements yielded by query traversals"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating query.elements counter: %w", err)
	}

	duration, err := meter.Float64Histogram("query.duration",
		metric.WithDescription("Duration of query traversals in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating query.duration histogram: %w", err)
	}

	errs, err := meter.Int64Counter("query.errors",
		metric.WithDescription("Query traversals that ended with an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating query.errors counter: %w", err)
	}

	return &QueryMetrics{
		traversals: traversals,
		elements:   elements,
		duration:   duration,
		errors:     errs,
	}, nil
}

// RecordTraversal records one finished traversal of the named query.
func (m *QueryMetrics) RecordTraversal(ctx context.Context, query string, elements int, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	name := attribute.String(AttrQueryName, query)
	m.traversals.Add(ctx, 1, metric.WithAttributes(name, attribute.String(AttrStatus, status)))
	m.elements.Add(ctx, int64(elements), metric.WithAttributes(name))
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(name))
	if err != nil {
		m.errors.Add(ctx, 1, metric.WithAttributes(name, attribute.String(AttrErrorCode, ErrorCode(err))))
	}
}

// ErrorCode classifies err for metric and span attributes: the AppError code
// when there is one, "canceled" for context errors, "callback" otherwise.
func ErrorCode(err error) string {
	var appErr *apperrors.AppError
	switch {
	case stderrors.As(err, &appErr):
		return string(appErr.Code)
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "callback"
	}
}

// HTTPMetrics holds the instruments recorded by the HTTP middleware.
type HTTPMetrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestActive   metric.Int64UpDownCounter
}

// NewHTTPMetrics creates the HTTP instruments on meter.
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	requestTotal, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.requests counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.duration histogram: %w", err)
	}

	requestActive, err := meter.Int64UpDownCounter("http.server.active",
		metric.WithDescription("Number of in-flight HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.active gauge: %w", err)
	}

	return &HTTPMetrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestActive:   requestActive,
	}, nil
}

// RecordRequestStart increments the in-flight request count.
func (m *HTTPMetrics) RecordRequestStart(ctx context.Context) {
	m.requestActive.Add(ctx, 1)
}

// RecordRequestEnd decrements in-flight requests and records the completed one.
func (m *HTTPMetrics) RecordRequestEnd(ctx context.Context, method, route string, status int, d time.Duration) {
	m.requestActive.Add(ctx, -1)
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrHTTPMethod, method),
		attribute.String(AttrHTTPRoute, route),
		attribute.Int(AttrHTTPStatus, status),
	))
	m.requestDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String(AttrHTTPMethod, method),
		attribute.String(AttrHTTPRoute, route),
	))
}
