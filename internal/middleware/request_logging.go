package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"
)

// RequestLogging writes one [HTTP] line per API request. Health and metrics
// probes are skipped.
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shouldSkipLogging(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		log.Printf("[HTTP] %s %s %d %dB %s",
			r.Method, r.URL.Path, wrapped.statusCode, wrapped.bytesWritten, time.Since(start).Round(time.Microsecond))
	})
}

func shouldSkipLogging(path string) bool {
	return path == "/metrics" || strings.HasPrefix(path, "/health")
}
