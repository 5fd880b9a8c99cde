package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bookworm/internal/cache"
	"bookworm/internal/config"
	"bookworm/internal/logging"
	"bookworm/internal/recommend"
	"bookworm/internal/store"
)

// @title BookWorm API
// @version 1.0
// @description Shelves, moderated reviews and recommendations for readers.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server stopped")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	logging.Info().Str("driver", cfg.Store.Driver).Msg("store connection OK")

	var recCache recommend.Cache
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			// Recommendations still work uncached.
			logging.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, cache disabled")
		} else {
			defer rc.Close()
			recCache = rc
		}
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      newRouter(ctx, cfg, st, recCache),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
