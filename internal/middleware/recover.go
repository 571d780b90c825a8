package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/omega-realm/mangos-admin/internal/log"
)

// Recover turns a handler panic into a generic 500. The panic value is only
// echoed back in development.
func Recover(development bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("[Middleware] Panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())

				body := ErrorResponse{Error: "Something went wrong!"}
				if development {
					body.Message = fmt.Sprint(rec)
				}
				writeJSONError(w, http.StatusInternalServerError, body)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
