package observe

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Middleware wraps HTTP handlers with tracing, metrics and an access log.
//
// Contract:
//   - Concurrency: the returned handler is safe for concurrent use.
//   - Errors: handler behavior is unchanged; only the status code is observed.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware. Nil components are replaced by no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NopTracer()
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{tracer: tracer, metrics: metrics, logger: logger}
}

// Handler wraps next.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := m.tracer.StartSpan(r.Context(), "HTTP "+r.Method,
			attribute.String("http.method", r.Method),
			attribute.String("url.path", r.URL.Path),
		)
		ctx = WithFields(ctx, F("method", r.Method), F("path", r.URL.Path))
		r = r.WithContext(ctx)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}

		span.SetName("HTTP " + r.Method + " " + route)
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", rec.status),
		)
		endRequestSpan(span, rec.status)

		m.metrics.RecordRequest(ctx, r.Method, route, rec.status, duration)

		fields := []Field{
			F("status", rec.status),
			F("duration_ms", float64(duration.Microseconds())/1000),
		}
		if loc := rec.Header().Get("Location"); loc != "" {
			fields = append(fields, F("location", loc))
		}
		if rec.status >= http.StatusInternalServerError {
			m.logger.Error(ctx, "request failed", fields...)
		} else {
			m.logger.Info(ctx, "request completed", fields...)
		}
	})
}

func endRequestSpan(span trace.Span, status int) {
	if status >= http.StatusInternalServerError {
		endSpan(span, errHTTPStatus(status))
		return
	}
	endSpan(span, nil)
}

type errHTTPStatus int

func (e errHTTPStatus) Error() string {
	return http.StatusText(int(e))
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
