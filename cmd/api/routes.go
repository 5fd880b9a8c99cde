package main

import (
	"context"
	"net/http"
	"time"

	"bookworm/internal/book"
	"bookworm/internal/config"
	"bookworm/internal/genre"
	"bookworm/internal/httpx"
	"bookworm/internal/ingest"
	"bookworm/internal/platform/openlibrary"
	"bookworm/internal/recommend"
	"bookworm/internal/review"
	"bookworm/internal/shelf"
	"bookworm/internal/stats"
	"bookworm/internal/store"
	"bookworm/internal/user"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type handlers struct {
	users     *user.HTTPHandler
	shelves   *shelf.HTTPHandler
	reviews   *review.HTTPHandler
	recommend *recommend.HTTPHandler
	books     *book.HTTPHandler
	imports   *ingest.HTTPHandler
	genres    *genre.HTTPHandler
	stats     *stats.HTTPHandler
}

// newRouter wires every service over st. cache may be nil, in which case
// recommendations are computed on every request.
func newRouter(ctx context.Context, cfg config.Config, st store.Store, cache recommend.Cache) http.Handler {
	userService := user.NewService(st)

	recommendService := recommend.NewService(st)
	if cache != nil {
		recommendService = recommendService.WithCache(cache, cfg.Recommend.CacheTTL)
	}

	h := handlers{
		users:     user.NewHTTPHandler(userService),
		shelves:   shelf.NewHTTPHandler(shelf.NewService(st)),
		reviews:   review.NewHTTPHandler(review.NewService(st)),
		recommend: recommend.NewHTTPHandler(recommendService),
		books:     book.NewHTTPHandler(book.NewService(st)),
		imports:   ingest.NewHTTPHandler(ingest.NewService(openlibrary.NewClient(cfg.OpenLibrary), st)),
		genres:    genre.NewHTTPHandler(genre.NewService(st)),
		stats:     stats.NewHTTPHandler(stats.NewService(st)),
	}

	rateLimiter := httpx.NewRateLimitMiddleware(ctx, cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)

	r := chi.NewRouter()
	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.AccessLogMiddleware)
	r.Use(httpx.RecoveryMiddleware)
	r.Use(httpx.MetricsMiddleware)
	r.Use(httpx.SecurityHeadersMiddleware(cfg.Server.EnableHSTS))
	r.Use(httpx.CORSMiddleware(cfg.Server.AllowedOrigins))
	r.Use(httpx.RequestSizeLimitMiddleware(cfg.Server.MaxBodyBytes))
	r.Use(rateLimiter.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := st.Ping(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(httpx.Authenticate(cfg.Auth.JWTSecret, userService))

		r.With(httpx.RequireIdentity).Post("/auth/session", h.users.SignIn)

		// Anonymous callers get the popular list.
		r.Get("/recommendations", h.recommend.Recommend)

		r.Route("/books", func(r chi.Router) {
			r.Get("/", h.books.List)
			r.Get("/{id}", h.books.Get)
			r.Get("/{id}/reviews", h.reviews.ListApproved)
			r.With(httpx.RequireUser).Post("/{id}/reviews", h.reviews.Submit)
		})
		r.Get("/genres", h.genres.List)

		r.Route("/me", func(r chi.Router) {
			r.Use(httpx.RequireUser)
			r.Get("/", h.users.GetCurrentUser)
			r.Patch("/goal", h.users.SetGoal)
			r.Put("/favorites", h.users.SetFavoriteGenres)
			r.Get("/library", h.shelves.Library)
			r.Get("/stats", h.stats.UserStats)
			r.Get("/shelves/{bookID}", h.shelves.GetShelf)
			r.Put("/shelves/{bookID}", h.shelves.SetShelf)
			r.Patch("/shelves/{bookID}/progress", h.shelves.UpdateProgress)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(httpx.RequireAdmin)
			r.Get("/stats", h.stats.Dashboard)

			r.Get("/books", h.books.List)
			r.Post("/books", h.books.Create)
			r.Post("/books/import", h.imports.Import)
			r.Get("/books/{id}", h.books.Get)
			r.Put("/books/{id}", h.books.Update)
			r.Delete("/books/{id}", h.books.Delete)

			r.Get("/genres", h.genres.List)
			r.Post("/genres", h.genres.Create)
			r.Put("/genres/{id}", h.genres.Rename)
			r.Delete("/genres/{id}", h.genres.Delete)

			r.Get("/users", h.users.List)
			r.Patch("/users/{id}/role", h.users.SetRole)

			r.Get("/reviews", h.reviews.ListPending)
			r.Patch("/reviews/{id}", h.reviews.Moderate)
		})
	})

	return r
}
