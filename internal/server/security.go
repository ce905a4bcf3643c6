package server

import (
	"net/http"
	"slices"
	"strings"

	"github.com/agbru/gsmul/internal/config"
)

// SecurityConfig controls the response headers and the request limits the
// API applies before any multiplication runs.
type SecurityConfig struct {
	EnableCORS bool
	// AllowedOrigins lists the accepted Origin values. "*" accepts any.
	AllowedOrigins []string
	AllowedMethods []string
	// MaxDigits bounds each operand's length; 0 disables the check.
	MaxDigits int
	// MaxBodyBytes bounds a POST /multiply body.
	MaxBodyBytes int64
}

func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		MaxDigits:      config.DefaultMaxDigits,
		MaxBodyBytes:   8 << 20,
	}
}

var staticSecurityHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"X-XSS-Protection", "1; mode=block"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
}

// matchOrigin returns the Access-Control-Allow-Origin value for origin, or
// "" when the origin is not accepted.
func (c SecurityConfig) matchOrigin(origin string) string {
	if slices.Contains(c.AllowedOrigins, "*") {
		return "*"
	}
	if origin != "" && slices.Contains(c.AllowedOrigins, origin) {
		return origin
	}
	return ""
}

// SecurityMiddleware sets the static security headers on every response.
// With CORS enabled it also advertises the allowed origin and methods, and
// answers OPTIONS preflights itself with 204.
func SecurityMiddleware(cfg SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for _, kv := range staticSecurityHeaders {
			h.Set(kv[0], kv[1])
		}
		if !cfg.EnableCORS {
			next(w, r)
			return
		}

		if allowed := cfg.matchOrigin(r.Header.Get("Origin")); allowed != "" {
			h.Set("Access-Control-Allow-Origin", allowed)
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", "Content-Type, Accept")
			h.Set("Access-Control-Max-Age", "86400")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}
