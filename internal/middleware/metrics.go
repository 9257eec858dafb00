package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"app/internal/metrics"
)

// MetricsMiddleware records request counts and latency. Paths are collapsed
// to their first segment so per-ID URLs do not explode label cardinality.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		path := routeLabel(r.URL.Path)
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func routeLabel(path string) string {
	trimmed := strings.TrimPrefix(path, "/v1")
	parts := strings.SplitN(strings.TrimPrefix(trimmed, "/"), "/", 2)
	if parts[0] == "" {
		return "/"
	}
	return "/" + parts[0]
}
