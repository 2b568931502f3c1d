package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Resolution outcomes recorded by Metrics.
const (
	OutcomeCacheHit   = "cache_hit"
	OutcomeSearchHit  = "search_hit"
	OutcomeSearchMiss = "search_miss"
	OutcomeError      = "error"
)

// Metrics records service metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordResolution records one title resolution and its outcome.
	RecordResolution(ctx context.Context, outcome string, duration time.Duration, err error)

	// RecordRequest records one served HTTP request.
	RecordRequest(ctx context.Context, method, route string, status int, duration time.Duration)
}

type otelMetrics struct {
	resolveTotal    metric.Int64Counter
	resolveErrors   metric.Int64Counter
	resolveDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
}

// NewMetrics creates the service instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	m := &otelMetrics{}
	var err error

	if m.resolveTotal, err = meter.Int64Counter(
		"wiki.resolve.total",
		metric.WithDescription("Title resolutions by outcome"),
		metric.WithUnit("{resolution}"),
	); err != nil {
		return nil, err
	}
	if m.resolveErrors, err = meter.Int64Counter(
		"wiki.resolve.errors",
		metric.WithDescription("Title resolutions that failed"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, err
	}
	if m.resolveDuration, err = meter.Float64Histogram(
		"wiki.resolve.duration_ms",
		metric.WithDescription("Title resolution duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if m.requestTotal, err = meter.Int64Counter(
		"http.server.requests",
		metric.WithDescription("HTTP requests served"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}
	if m.requestDuration, err = meter.Float64Histogram(
		"http.server.duration_ms",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *otelMetrics) RecordResolution(ctx context.Context, outcome string, duration time.Duration, err error) {
	opt := metric.WithAttributes(attribute.String("outcome", outcome))
	m.resolveTotal.Add(ctx, 1, opt)
	if err != nil {
		m.resolveErrors.Add(ctx, 1)
	}
	m.resolveDuration.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

func (m *otelMetrics) RecordRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)
	m.requestTotal.Add(ctx, 1, opt)
	m.requestDuration.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

type nopMetrics struct{}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics { return nopMetrics{} }

func (nopMetrics) RecordResolution(context.Context, string, time.Duration, error)    {}
func (nopMetrics) RecordRequest(context.Context, string, string, int, time.Duration) {}
