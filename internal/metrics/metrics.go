// Package metrics holds the Prometheus collectors of the service. They are
// registered on the default registry and served on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookworm_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookworm_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookworm_http_active_requests",
			Help: "Number of HTTP requests in flight",
		},
	)

	// Domain
	ShelfMoves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookworm_shelf_moves_total",
			Help: "Books moved between shelves, by target shelf",
		},
		[]string{"shelf"},
	)

	ModerationActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookworm_review_moderations_total",
			Help: "Review moderation decisions, by action",
		},
		[]string{"action"},
	)

	ReviewsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookworm_reviews_submitted_total",
			Help: "Reviews submitted for moderation",
		},
	)

	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookworm_recommendations_total",
			Help: "Recommendation lists served, by kind of reason",
		},
		[]string{"kind"},
	)

	RecommendCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookworm_recommend_cache_hits_total",
			Help: "Recommendation cache hits",
		},
	)

	RecommendCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookworm_recommend_cache_misses_total",
			Help: "Recommendation cache misses",
		},
	)

	BooksImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookworm_books_imported_total",
			Help: "Books created by catalog imports",
		},
	)
)

// RecordAPIRequest records one finished HTTP request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

func RecordShelfMove(shelf string) {
	ShelfMoves.WithLabelValues(shelf).Inc()
}

func RecordModeration(action string) {
	ModerationActions.WithLabelValues(action).Inc()
}

// RecordRecommendation counts a served list as "genre", "popular" or "empty".
func RecordRecommendation(kind string) {
	Recommendations.WithLabelValues(kind).Inc()
}

func RecordCacheLookup(hit bool) {
	if hit {
		RecommendCacheHits.Inc()
	} else {
		RecommendCacheMisses.Inc()
	}
}

func RecordImport(books int) {
	BooksImported.Add(float64(books))
}
