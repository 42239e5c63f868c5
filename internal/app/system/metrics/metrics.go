// Package metrics declares the Prometheus collectors the service exports on
// /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Tasks counts async task outcomes by task name and result
	// (ok, error, panic, rejected).
	Tasks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ekaahub_tasks_total",
			Help: "Async tasks by name and result",
		},
		[]string{"task", "result"},
	)

	// Emails counts delivery attempts by message kind and result.
	Emails = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ekaahub_emails_total",
			Help: "Notification emails by kind and result",
		},
		[]string{"kind", "result"},
	)

	// Registrations counts accepted registrations per program.
	Registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ekaahub_registrations_total",
			Help: "Registrations created per program",
		},
		[]string{"program"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ekaahub_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "code"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ekaahub_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

func init() {
	prometheus.MustRegister(Tasks, Emails, Registrations, httpRequests, httpDuration)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency labelled by the matched chi
// route pattern, which keeps label cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
