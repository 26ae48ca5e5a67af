package telemetry_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/duplicate-as/internal/telemetry"
)

func TestObserve(t *testing.T) {
	t.Parallel()

	p := telemetry.NewProvider(prometheus.NewRegistry())
	m := p.Metrics

	m.ObserveDuplication(telemetry.Kind(true), telemetry.OutcomeSuccess, 10*time.Millisecond)
	m.ObserveDuplication(telemetry.Kind(false), telemetry.OutcomeFailed, time.Millisecond)
	m.ObserveRejection("post_not_found")
	m.ObserveCopyFailure(telemetry.StepAttributes)
	m.ObserveEvent(telemetry.OutcomeSuccess)

	assert.InDelta(t, 1, testutil.ToFloat64(m.Duplications.WithLabelValues("transform", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Duplications.WithLabelValues("duplicate", "failed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Rejections.WithLabelValues("post_not_found")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CopyFailures.WithLabelValues("attributes")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.EventsPublished.WithLabelValues("success")), 0)
}

func TestNilMetricsAreSafe(t *testing.T) {
	t.Parallel()

	var m *telemetry.Metrics
	m.ObserveDuplication("duplicate", "success", time.Second)
	m.ObserveRejection("x")
	m.ObserveCopyFailure("y")
	m.ObserveEvent("z")
}

func TestNilProvider(t *testing.T) {
	t.Parallel()

	var p *telemetry.Provider
	assert.Nil(t, p.MetricsOrNil())

	ctx, span := p.StartSpan(context.Background(), "test")
	defer span.End()
	assert.NotNil(t, ctx)
}

func TestGinMiddlewareAndHandler(t *testing.T) {
	t.Parallel()

	p := telemetry.NewProvider(prometheus.NewRegistry())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(p.Metrics.GinMiddleware())
	r.GET("/records/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(p.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/records/7", http.NoBody))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", http.NoBody))

	assert.InDelta(t, 1, testutil.ToFloat64(p.Metrics.HTTPRequests.WithLabelValues("GET", "/records/:id", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(p.Metrics.HTTPRequests.WithLabelValues("GET", "unmatched", "404")), 0)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "duplicate_as_http_requests_total"))
}
