package server

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestExtractFirstIP(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"127.0.0.1", "127.0.0.1"},
		{"127.0.0.1, 192.168.1.1", "127.0.0.1"},
		{"10.0.0.1, 10.0.0.2, 10.0.0.3", "10.0.0.1"},
		{"", ""},
		{"   1.2.3.4   ", "1.2.3.4"},
	}

	for _, tt := range tests {
		if got := extractFirstIP(tt.input); got != tt.expected {
			t.Errorf("extractFirstIP(%q) = %q; want %q", tt.input, got, tt.expected)
		}
	}
}

func TestStripPort(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"127.0.0.1:8080", "127.0.0.1"},
		{"192.168.1.1", "192.168.1.1"},
		{"[::1]:8080", "::1"},
		{"[::1]", "::1"},
	}

	for _, tt := range tests {
		if got := stripPort(tt.input); got != tt.expected {
			t.Errorf("stripPort(%q) = %q; want %q", tt.input, got, tt.expected)
		}
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		remote   string
		expected string
	}{
		{"X-Forwarded-For", map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, "9.9.9.9:1234", "1.2.3.4"},
		{"X-Real-IP", map[string]string{"X-Real-IP": " 5.6.7.8 "}, "9.9.9.9:1234", "5.6.7.8"},
		{"RemoteAddr", nil, "9.9.9.9:1234", "9.9.9.9"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			req.RemoteAddr = tt.remote

			if got := getClientIP(req); got != tt.expected {
				t.Errorf("getClientIP() = %q; want %q", got, tt.expected)
			}
		})
	}
}

// fakeClock is a manually advanced time source for the rate limiter.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, rate int) (*RateLimiter, *fakeClock) {
	t.Helper()
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: rate, CleanupInterval: time.Hour})
	t.Cleanup(rl.Stop)
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	rl.now = clock.Now
	return rl, clock
}

func TestRateLimiterAllow(t *testing.T) {
	rl, clock := newTestLimiter(t, 3)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("fourth request in the window should be rejected")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("another client has its own quota")
	}

	clock.Advance(time.Minute)
	if !rl.Allow("1.2.3.4") {
		t.Error("quota should reset with a new window")
	}
}

func TestRateLimiterEvict(t *testing.T) {
	rl, clock := newTestLimiter(t, 10)

	rl.Allow("1.2.3.4")
	clock.Advance(90 * time.Second)
	rl.Allow("5.6.7.8")
	if got := rl.Clients(); got != 2 {
		t.Fatalf("Clients() = %d, want 2", got)
	}

	clock.Advance(time.Minute)
	rl.evict()
	if got := rl.Clients(); got != 1 {
		t.Errorf("Clients() = %d after eviction, want 1", got)
	}
}

func TestRateLimiterCleanupLoop(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		RequestsPerMinute: 10,
		Window:            10 * time.Millisecond,
		CleanupInterval:   10 * time.Millisecond,
	})
	defer rl.Stop()

	rl.Allow("1.2.3.4")
	if rl.Clients() != 1 {
		t.Fatal("Should have 1 client")
	}

	deadline := time.Now().Add(2 * time.Second)
	for rl.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("Client should have been cleaned up")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRateLimiterDefaultsAndStop(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{})
	if rl.rate != 60 || rl.window != time.Minute || rl.cleanup != 5*time.Minute {
		t.Errorf("unexpected defaults: rate=%d window=%v cleanup=%v", rl.rate, rl.window, rl.cleanup)
	}
	rl.Stop()
	rl.Stop()
}

func TestRateLimitMiddleware(t *testing.T) {
	rl, _ := newTestLimiter(t, 1)
	calls := 0
	handler := RateLimitMiddleware(rl, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/multiply", http.NoBody)
		req.RemoteAddr = "10.0.0.1:5555"
		w := httptest.NewRecorder()
		handler(w, req)

		if i == 1 {
			if w.Code != http.StatusTooManyRequests {
				t.Errorf("Expected 429, got %d", w.Code)
			}
			if w.Header().Get("Retry-After") != "60" {
				t.Errorf("Expected Retry-After 60, got %q", w.Header().Get("Retry-After"))
			}
		}
	}
	if calls != 1 {
		t.Errorf("Expected the handler to run once, got %d", calls)
	}
}

func TestSecurityMiddleware(t *testing.T) {
	t.Run("Preflight", func(t *testing.T) {
		called := false
		handler := SecurityMiddleware(DefaultSecurityConfig(), func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		req := httptest.NewRequest(http.MethodOptions, "/multiply", http.NoBody)
		req.Header.Set("Origin", "https://example.org")
		w := httptest.NewRecorder()
		handler(w, req)

		if called {
			t.Error("Preflight must not reach the handler")
		}
		if w.Code != http.StatusNoContent {
			t.Errorf("Expected 204, got %d", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, OPTIONS" {
			t.Errorf("Unexpected allowed methods %q", got)
		}
	})

	t.Run("Origin not allowed", func(t *testing.T) {
		cfg := DefaultSecurityConfig()
		cfg.AllowedOrigins = []string{"https://trusted.example"}
		handler := SecurityMiddleware(cfg, func(w http.ResponseWriter, r *http.Request) {})

		req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		handler(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Expected no CORS origin, got %q", got)
		}
		if w.Header().Get("X-Frame-Options") != "DENY" {
			t.Error("Security headers must be set regardless of origin")
		}
	})

	t.Run("CORS disabled", func(t *testing.T) {
		cfg := DefaultSecurityConfig()
		cfg.EnableCORS = false
		called := false
		handler := SecurityMiddleware(cfg, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		req := httptest.NewRequest(http.MethodOptions, "/health", http.NoBody)
		handler(httptest.NewRecorder(), req)

		if !called {
			t.Error("Without CORS, OPTIONS is passed to the handler")
		}
	})
	t.Run("Specific origin is echoed", func(t *testing.T) {
		cfg := DefaultSecurityConfig()
		cfg.AllowedOrigins = []string{"https://a.example", "https://b.example"}
		handler := SecurityMiddleware(cfg, func(w http.ResponseWriter, r *http.Request) {})

		req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
		req.Header.Set("Origin", "https://b.example")
		w := httptest.NewRecorder()
		handler(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://b.example" {
			t.Errorf("Expected the request origin to be echoed, got %q", got)
		}
	})
}
