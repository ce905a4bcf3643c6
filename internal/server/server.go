package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/gsmul/internal/config"
	apperrors "github.com/agbru/gsmul/internal/errors"
	"github.com/agbru/gsmul/internal/logging"
	"github.com/agbru/gsmul/internal/multiplier"
	"github.com/agbru/gsmul/internal/service"
)

// Server is the HTTP front end of the multipliers.
type Server struct {
	factory        multiplier.Factory
	service        service.Service
	httpServer     *http.Server
	logger         logging.Logger
	rateLimiter    *RateLimiter
	securityConfig SecurityConfig
	metrics        *Metrics
	timeouts       Timeouts
}

// route is one API endpoint. usage is what the startup log advertises.
type route struct {
	path    string
	usage   string
	handler func(*Server) http.HandlerFunc
}

var routes = []route{
	{"/multiply", "GET /multiply?x=<digits>&y=<digits>&base=<base>&algo=<name>, POST /multiply {x, y, base, algorithm}",
		func(s *Server) http.HandlerFunc { return s.handleMultiply }},
	{"/health", "GET /health", func(s *Server) http.HandlerFunc { return s.handleHealth }},
	{"/algorithms", "GET /algorithms", func(s *Server) http.HandlerFunc { return s.handleAlgorithms }},
	{"/metrics", "GET /metrics", func(s *Server) http.HandlerFunc { return s.handleMetrics }},
}

// NewServer builds a server for the multipliers of factory, listening on
// cfg.Port and limiting operands to cfg.MaxDigits. Options are applied
// last and may override both.
func NewServer(factory multiplier.Factory, cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		factory:        factory,
		logger:         logging.NewLogger(os.Stdout, "server"),
		securityConfig: DefaultSecurityConfig(),
		metrics:        NewMetrics(),
		timeouts:       DefaultServerTimeouts(),
	}
	s.securityConfig.MaxDigits = cfg.MaxDigits
	for _, opt := range opts {
		opt(s)
	}
	if s.service == nil {
		s.service = service.NewCalculatorService(s.factory, s.securityConfig.MaxDigits)
	}
	if s.rateLimiter == nil {
		s.rateLimiter = NewRateLimiter(DefaultRateLimiterConfig())
	}

	mux := http.NewServeMux()
	for _, rt := range routes {
		mux.HandleFunc(rt.path, s.wrapWithMiddleware(rt.handler(s)))
	}
	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort("", cfg.Port),
		Handler:      mux,
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
	}
	return s
}

// Handler returns the routed handler with its middleware, for embedding or
// for httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is done or the process receives SIGINT or SIGTERM,
// then drains in-flight requests within the shutdown timeout. A listen
// failure is returned as a ServerError.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer s.rateLimiter.Stop()

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return apperrors.NewServerError("server failed to start", err)
	}

	s.logger.Info("starting server",
		logging.String("addr", ln.Addr().String()),
		logging.Int("max_digits", s.securityConfig.MaxDigits))
	for _, rt := range routes {
		s.logger.Info("endpoint", logging.String("usage", rt.usage))
	}

	served := make(chan error, 1)
	go func() { served <- s.httpServer.Serve(ln) }()

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return apperrors.NewServerError("server stopped unexpectedly", err)
	case <-ctx.Done():
		s.logger.Info("shutdown requested, draining connections")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return apperrors.NewServerError("failed to gracefully shutdown server", err)
	}
	s.logger.Info("server stopped gracefully")
	return nil
}
