package server

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter is a fixed-window limiter keyed by client IP. Each client may
// issue at most Requests requests per window.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	rate    int
	window  time.Duration
	cleanup time.Duration
	stop    chan struct{}
	once    sync.Once
	now     func() time.Time
}

type clientWindow struct {
	remaining int
	start     time.Time
}

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	// RequestsPerMinute is the number of requests a client may issue per
	// window. Default: 60.
	RequestsPerMinute int
	// Window is the length of a counting window. Default: one minute.
	Window time.Duration
	// CleanupInterval is how often idle clients are forgotten. Default: 5 minutes.
	CleanupInterval time.Duration
}

// DefaultRateLimiterConfig returns the default rate limiter configuration.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerMinute: 60,
		Window:            time.Minute,
		CleanupInterval:   5 * time.Minute,
	}
}

// NewRateLimiter creates a rate limiter and starts its cleanup goroutine.
// Call Stop to release it.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	defaults := DefaultRateLimiterConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = defaults.RequestsPerMinute
	}
	if config.Window <= 0 {
		config.Window = defaults.Window
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = defaults.CleanupInterval
	}

	rl := &RateLimiter{
		clients: make(map[string]*clientWindow),
		rate:    config.RequestsPerMinute,
		window:  config.Window,
		cleanup: config.CleanupInterval,
		stop:    make(chan struct{}),
		now:     time.Now,
	}
	go rl.cleanupLoop()
	return rl
}

// Allow reports whether clientIP may issue one more request, consuming it
// if so.
func (rl *RateLimiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	c, ok := rl.clients[clientIP]
	if !ok || now.Sub(c.start) >= rl.window {
		rl.clients[clientIP] = &clientWindow{remaining: rl.rate - 1, start: now}
		return true
	}
	if c.remaining == 0 {
		return false
	}
	c.remaining--
	return true
}

// Clients returns the number of tracked clients.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// evict forgets clients whose window ended more than one window ago.
func (rl *RateLimiter) evict() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for ip, c := range rl.clients {
		if now.Sub(c.start) > 2*rl.window {
			delete(rl.clients, ip)
		}
	}
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.evict()
		case <-rl.stop:
			return
		}
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// RateLimitMiddleware rejects requests over the client's quota with 429.
func RateLimitMiddleware(rl *RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	retryAfter := strconv.Itoa(int(rl.window.Seconds()))
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(getClientIP(r)) {
			rateLimitedRequests.Inc()
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", retryAfter)
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Too Many Requests","message":"Rate limit exceeded. Please try again later."}`))
			return
		}
		next(w, r)
	}
}

// getClientIP identifies the caller, preferring X-Forwarded-For, then
// X-Real-IP, then the connection's remote address.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return extractFirstIP(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return stripPort(r.RemoteAddr)
}

// extractFirstIP returns the first entry of a comma-separated address list.
func extractFirstIP(xff string) string {
	first, _, _ := strings.Cut(xff, ",")
	return strings.TrimSpace(first)
}

// stripPort removes the port from an IPv4 or IPv6 address.
//
// Examples:
//   - "127.0.0.1:8080" -> "127.0.0.1"
//   - "[::1]:8080" -> "::1"
//   - "192.168.1.1" -> "192.168.1.1"
func stripPort(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return strings.Trim(addr, "[]")
	}
	return host
}
