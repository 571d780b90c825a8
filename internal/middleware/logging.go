package middleware

import (
	"net/http"

	"github.com/felixge/httpsnoop"

	"github.com/omega-realm/mangos-admin/internal/log"
)

// AccessLog writes one line per request. httpsnoop keeps the optional
// interfaces of the wrapped writer, so websocket upgrades still hijack.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		line := "[HTTP] %s %s %d %dB %s id=%s"
		args := []any{r.Method, r.URL.RequestURI(), m.Code, m.Written, m.Duration, RequestIDFromContext(r.Context())}
		switch {
		case m.Code >= http.StatusInternalServerError:
			log.Error(line, args...)
		case m.Code >= http.StatusBadRequest:
			log.Warn(line, args...)
		default:
			log.Info(line, args...)
		}
	})
}
