package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/omega-realm/mangos-admin/internal/log"
	"github.com/omega-realm/mangos-admin/internal/ratelimit"
)

// RateLimit rejects clients that exceed the limiter's window with 429. When
// the counter backend fails the request is let through.
func RateLimit(limiter *ratelimit.Limiter, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r, trustProxy)
			d, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				log.Warn("[RateLimit] Counter unavailable, allowing %s: %v", ip, err)
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("RateLimit-Limit", strconv.Itoa(d.Limit))
			h.Set("RateLimit-Remaining", strconv.Itoa(d.Remaining))
			h.Set("RateLimit-Reset", strconv.Itoa(int(math.Ceil(d.ResetIn.Seconds()))))

			if !d.Allowed {
				h.Set("Retry-After", h.Get("RateLimit-Reset"))
				log.Debug("[RateLimit] Rejected %s %s from %s", r.Method, r.URL.Path, ip)
				writeJSONError(w, http.StatusTooManyRequests, ErrorResponse{
					Error: "Too many requests from this IP, please try again later.",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP identifies the caller. Behind a trusted proxy it is the right-most
// X-Forwarded-For entry, the peer address the proxy recorded.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if ip := strings.TrimSpace(parts[len(parts)-1]); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil || host == "" {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
