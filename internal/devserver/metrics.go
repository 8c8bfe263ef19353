package devserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are the dev server's Prometheus collectors, kept on a private
// registry so several servers can run in one process.
type Metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	bulk          *prometheus.CounterVec
	transitions   *prometheus.CounterVec
	notifications *prometheus.CounterVec
	exports       *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fedadmin_dev",
			Name:      "http_requests_total",
			Help:      "API requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fedadmin_dev",
			Name:      "http_request_duration_seconds",
			Help:      "API request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		bulk: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fedadmin_dev",
			Name:      "bulk_applied_total",
			Help:      "Entities changed by bulk actions.",
		}, []string{"resource", "action"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fedadmin_dev",
			Name:      "status_transitions_total",
			Help:      "Single-entity status changes.",
		}, []string{"resource", "status"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fedadmin_dev",
			Name:      "notification_recipients_total",
			Help:      "Recipients reached by accepted notifications.",
		}, []string{"resource"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fedadmin_dev",
			Name:      "exports_total",
			Help:      "Rendered exports by format.",
		}, []string{"resource", "format"}),
	}
	m.registry.MustRegister(m.requests, m.latency, m.bulk, m.transitions, m.notifications, m.exports)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Instrument counts every request under its chi route pattern.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
