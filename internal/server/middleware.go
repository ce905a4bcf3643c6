package server

import (
	"net/http"
	"time"

	"github.com/agbru/gsmul/internal/logging"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// asStatusRecorder reuses w when an outer middleware already wraps it.
func asStatusRecorder(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

// loggingMiddleware logs each request with its method, path, client,
// status and duration.
func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := asStatusRecorder(w)

		next(rec, r)

		s.logger.Info("request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.String("remote", r.RemoteAddr),
			logging.Int("status", rec.status),
			logging.Duration("duration", time.Since(start)),
		)
	}
}

// wrapWithMiddleware applies the full middleware chain to a handler:
// security headers, rate limiting, logging, then metrics.
func (s *Server) wrapWithMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	wrapped := s.metricsMiddleware(handler)
	wrapped = s.loggingMiddleware(wrapped)
	wrapped = RateLimitMiddleware(s.rateLimiter, wrapped)
	return SecurityMiddleware(s.securityConfig, wrapped)
}
