package store

import (
	"context"
	"fmt"
	"time"

	"bookworm/internal/config"
	"bookworm/internal/logging"
	"bookworm/internal/store/badgerstore"
	"bookworm/internal/store/mongostore"
	"bookworm/internal/store/pgstore"

	"github.com/cenkalti/backoff/v4"
)

// Open connects the driver named by cfg.Store.Driver. Network drivers are
// retried with exponential backoff so the service can start alongside its
// database.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	var s Store
	connect := func() error {
		var err error
		s, err = open(ctx, cfg)
		return err
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(newBackOff(), cfg.Store.ConnectRetries),
		ctx,
	)
	notify := func(err error, wait time.Duration) {
		logging.Warn().Err(err).
			Str("driver", cfg.Store.Driver).
			Dur("retry_in", wait).
			Msg("store not ready")
	}
	if err := backoff.RetryNotify(connect, b, notify); err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	return s, nil
}

func newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	return b
}

func open(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		s, err := pgstore.Open(ctx, cfg.Postgres.DSN, cfg.Store.Timeout)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverMongo:
		s, err := mongostore.Open(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Store.Timeout)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverBadger:
		s, err := badgerstore.Open(badgerstore.Options{
			Path:     cfg.Badger.Path,
			InMemory: cfg.Badger.InMemory,
		})
		if err != nil {
			// A locked or corrupt directory does not heal by waiting.
			return nil, backoff.Permanent(err)
		}
		return s, nil
	default:
		return nil, backoff.Permanent(fmt.Errorf("unknown store driver %q", cfg.Store.Driver))
	}
}
