package httpapi

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"sentiview/internal/lifecycle"
)

const metricsNamespace = "sentiview"

var (
	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route pattern, method and status",
	}, []string{"path", "method", "status"})

	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency; /submit includes the classifier round trip",
		Buckets:   []float64{.005, .025, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"path", "method", "status"})

	httpInflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "inflight_requests",
		Help:      "HTTP requests currently being served",
	})

	transitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "lifecycle",
		Name:      "transitions_total",
		Help:      "Request lifecycle transitions across all sessions",
	}, []string{"from", "to"})
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, httpInflight, transitionsTotal)
}

var sessionsGaugeOnce sync.Once

// RegisterSessionsGauge exposes the live session count. Only the first call
// registers; later calls are ignored.
func RegisterSessionsGauge(live func() int) {
	sessionsGaugeOnce.Do(func() {
		prometheus.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "session",
			Name:      "live",
			Help:      "Sessions currently held in memory",
		}, func() float64 { return float64(live()) }))
	})
}

// MetricsMiddleware records count, latency and in-flight gauges per route.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		// the route pattern is only known once chi has routed the request
		labels := []string{routePatternOrPath(r), r.Method, strconv.Itoa(status)}
		httpRequestsTotal.WithLabelValues(labels...).Inc()
		httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
	})
}

// routePatternOrPath prefers the chi route pattern so session ids and other
// path parameters never become label values.
func routePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// MetricsPublisher counts lifecycle transitions. It satisfies
// lifecycle.EventPublisher.
type MetricsPublisher struct{}

func (MetricsPublisher) Publish(e lifecycle.Event) {
	transitionsTotal.WithLabelValues(e.From.String(), e.To.String()).Inc()
}
