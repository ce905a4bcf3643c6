// Package server provides the HTTP API for the grade-school multiplier.
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	activeRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gsmul_active_requests",
		Help: "Requests currently being served.",
	})
	totalRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gsmul_requests_total",
		Help: "Requests served, by path and status code.",
	}, []string{"path", "status"})
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gsmul_request_duration_seconds",
		Help:    "Time spent serving requests, by path.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
	}, []string{"path"})
	rateLimitedRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gsmul_rate_limited_total",
		Help: "Requests rejected by the rate limiter.",
	})
)

// Metrics serves the default Prometheus registry. The multiplier package
// records its own counters and progress gauge there.
type Metrics struct {
	handler http.Handler
}

func NewMetrics() *Metrics {
	return &Metrics{handler: promhttp.Handler()}
}

// begin accounts for a request to path and returns the function that closes
// the accounting once the status is known.
func (m *Metrics) begin(path string) func(status int) {
	start := time.Now()
	activeRequests.Inc()
	return func(status int) {
		activeRequests.Dec()
		totalRequests.WithLabelValues(path, strconv.Itoa(status)).Inc()
		requestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.metrics.handler.ServeHTTP(w, r)
}

// metricsMiddleware only sees registered routes, so the path label stays
// bounded.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		done := s.metrics.begin(r.URL.Path)
		rec := asStatusRecorder(w)
		next(rec, r)
		done(rec.status)
	}
}
