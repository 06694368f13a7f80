package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "exam_portal"

// Registry holds every collector this service exports. Counters can be
// incremented before Init; they are only exposed once registered.
var Registry = prometheus.NewRegistry()

// HTTP
var (
	RequestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   []float64{0.025, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "route"})

	RequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "Requests currently being served.",
	})
)

// Domain
var (
	SubmissionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exam_submissions_total",
		Help:      "Exam submissions by submission mode.",
	}, []string{"mode"})

	BookkeepingFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exam_bookkeeping_failures_total",
		Help:      "Best-effort write steps that failed.",
	}, []string{"step"})

	CertificatesRendered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "certificates_rendered_total",
		Help:      "Certificate requests by outcome.",
	}, []string{"outcome"})

	StorageCompensations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_compensations_total",
		Help:      "Compensating deletes of uploaded objects by outcome.",
	}, []string{"outcome"})
)

// Init registers the collectors with Registry, together with the Go runtime
// and process collectors. Call it once at startup.
func Init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RequestCounter,
		RequestDuration,
		RequestsInFlight,
		SubmissionCounter,
		BookkeepingFailures,
		CertificatesRendered,
		StorageCompensations,
	)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		RequestsInFlight.Inc()
		start := time.Now()
		defer RequestsInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		RequestCounter.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
	return gin.WrapH(h)
}
