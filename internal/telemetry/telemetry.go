// Package telemetry holds the Prometheus metrics and the OpenTelemetry tracer
// of the duplicate-as service.
package telemetry

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "duplicate-as"

// Label values.
const (
	KindDuplicate = "duplicate"
	KindTransform = "transform"

	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"

	StepClassification = "classification"
	StepAttributes     = "attributes"
	StepPrimaryImage   = "primary_image"
	StepAfterDuplicate = "after_duplicate"
)

// Metrics holds the service's collectors.
type Metrics struct {
	Duplications        *prometheus.CounterVec
	DuplicationDuration *prometheus.HistogramVec
	Rejections          *prometheus.CounterVec
	CopyFailures        *prometheus.CounterVec
	EventsPublished     *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
}

// Provider bundles metrics, their gatherer and the tracer.
type Provider struct {
	Tracer   trace.Tracer
	Metrics  *Metrics
	gatherer prometheus.Gatherer
}

// NewProvider registers the metrics with reg. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewProvider(reg *prometheus.Registry) *Provider {
	return &Provider{
		Tracer:   otel.Tracer(serviceName),
		Metrics:  newMetrics(reg),
		gatherer: reg,
	}
}

// Handler serves the registry in the Prometheus text format.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}

// StartSpan starts a span. The caller ends it. A nil Provider uses the
// global tracer.
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(serviceName)
	if p != nil && p.Tracer != nil {
		tracer = p.Tracer
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// MetricsOrNil returns p.Metrics, or nil for a nil Provider.
func (p *Provider) MetricsOrNil() *Metrics {
	if p == nil {
		return nil
	}
	return p.Metrics
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Duplications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "duplicate_as_duplications_total",
			Help: "Duplications attempted after validation, by kind and outcome",
		}, []string{"kind", "outcome"}),
		DuplicationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "duplicate_as_duplication_duration_seconds",
			Help:    "Time to create a duplicate and copy its related data",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"kind"}),
		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "duplicate_as_rejections_total",
			Help: "Requests rejected by validation, by reason",
		}, []string{"reason"}),
		CopyFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "duplicate_as_copy_failures_total",
			Help: "Copy steps that failed after the duplicate was created",
		}, []string{"step"}),
		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "duplicate_as_events_published_total",
			Help: "Record events written to Redis, by outcome",
		}, []string{"outcome"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "duplicate_as_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "duplicate_as_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Kind returns the kind label for a duplication.
func Kind(isTransform bool) string {
	if isTransform {
		return KindTransform
	}
	return KindDuplicate
}

// ObserveDuplication counts one duplication and its latency.
func (m *Metrics) ObserveDuplication(kind, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.Duplications.WithLabelValues(kind, outcome).Inc()
	m.DuplicationDuration.WithLabelValues(kind).Observe(took.Seconds())
}

// ObserveRejection counts a validation rejection.
func (m *Metrics) ObserveRejection(reason string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(reason).Inc()
}

// ObserveCopyFailure counts a failed copy step.
func (m *Metrics) ObserveCopyFailure(step string) {
	if m == nil {
		return
	}
	m.CopyFailures.WithLabelValues(step).Inc()
}

// ObserveEvent counts a publish attempt.
func (m *Metrics) ObserveEvent(outcome string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(outcome).Inc()
}

// GinMiddleware records request counts and latency per matched route.
// Unmatched requests are grouped under "unmatched".
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
