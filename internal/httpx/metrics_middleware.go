package httpx

import (
	"net/http"
	"time"

	"bookworm/internal/metrics"

	"github.com/go-chi/chi/v5"
)

// MetricsMiddleware records request counts and latency labelled by the chi
// route pattern, so path parameters do not explode label cardinality.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		rw := wrap(w)
		next.ServeHTTP(rw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		metrics.RecordAPIRequest(r.Method, route, rw.statusCode, time.Since(start))
	})
}
