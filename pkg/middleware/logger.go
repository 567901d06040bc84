package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// Logger emits one structured log line per request after the handler
// completes, carrying the method, request URI, remote address, and elapsed
// time.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			logger.Info("request",
				"method", r.Method,
				"uri", r.URL.RequestURI(),
				"addr", r.RemoteAddr,
				"duration", time.Since(start),
			)
		}
		return http.HandlerFunc(fn)
	}
}
