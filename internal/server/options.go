package server

import (
	"log"
	"time"

	"github.com/agbru/gsmul/internal/logging"
	"github.com/agbru/gsmul/internal/service"
)

// Option customizes a Server built by NewServer. Options run after the
// defaults and the application configuration are applied.
type Option func(*Server)

// WithLogger replaces the default JSON logger. A nil logger is ignored.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStdLogger logs plain text lines through a standard library logger.
func WithStdLogger(logger *log.Logger) Option {
	if logger == nil {
		return func(*Server) {}
	}
	return WithLogger(logging.NewStdLoggerAdapter(logger))
}

// WithService bypasses the service built from the multiplier factory.
func WithService(svc service.Service) Option {
	return func(s *Server) {
		if svc != nil {
			s.service = svc
		}
	}
}

func WithTimeouts(timeouts Timeouts) Option {
	return func(s *Server) { s.timeouts = timeouts }
}

func WithRateLimiter(rl *RateLimiter) Option {
	return func(s *Server) { s.rateLimiter = rl }
}

func WithSecurityConfig(cfg SecurityConfig) Option {
	return func(s *Server) { s.securityConfig = cfg }
}

// WithMaxDigits overrides the per-operand length limit taken from the
// application configuration. 0 disables it.
func WithMaxDigits(maxDigits int) Option {
	return func(s *Server) { s.securityConfig.MaxDigits = maxDigits }
}

// Timeouts groups the durations the server enforces. RequestTimeout bounds
// a single multiplication; the others configure the underlying http.Server.
type Timeouts struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

func DefaultServerTimeouts() Timeouts {
	return Timeouts{
		RequestTimeout:  time.Minute,
		ShutdownTimeout: 30 * time.Second,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    2 * time.Minute,
		IdleTimeout:     2 * time.Minute,
	}
}
