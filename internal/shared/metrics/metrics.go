package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "userprefs"

// Metrics owns a private Prometheus registry. A nil *Metrics is valid and
// records nothing, which keeps tests and tools free of wiring.
type Metrics struct {
	reg        *prometheus.Registry
	inflight   prometheus.Gauge
	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	grants     *prometheus.CounterVec
	prefWrites prometheus.Counter
}

// New creates a Metrics instance with a fresh registry and registers collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		reg: reg,
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of inflight HTTP requests.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests processed, partitioned by status code, method and route.",
		}, []string{"code", "method", "route"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Histogram of latencies for HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		grants: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_grants_issued_total",
			Help:      "Presigned image URLs issued, partitioned by HTTP method of the grant.",
		}, []string{"method"}),
		prefWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preferences_writes_total",
			Help:      "Preference records written.",
		}),
	}

	reg.MustRegister(
		m.inflight,
		m.requests,
		m.latency,
		m.grants,
		m.prefWrites,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Middleware records request count and latency per matched route. Unmatched
// requests are grouped under route "unmatched" to bound label cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		m.inflight.Inc()
		defer m.inflight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(strconv.Itoa(c.Writer.Status()), method, route).Inc()
		m.latency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// GrantIssued counts one presigned URL for the given HTTP method.
func (m *Metrics) GrantIssued(method string) {
	if m == nil {
		return
	}
	m.grants.WithLabelValues(method).Inc()
}

// PreferencesWritten counts one persisted preferences record.
func (m *Metrics) PreferencesWritten() {
	if m == nil {
		return
	}
	m.prefWrites.Inc()
}
