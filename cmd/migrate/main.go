package main

import (
	"context"
	"flag"
	"time"

	"bookworm/internal/config"
	"bookworm/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	loadEnvFiles()
	logging.Init(logging.Config{Level: "info", Format: "console"})

	dir := migrationsDir()
	if *command == "create" {
		if *name == "" {
			logging.Fatal().Msg("name is required for 'create' command")
		}
		if err := goose.Create(nil, dir, *name, "sql"); err != nil {
			logging.Fatal().Err(err).Msg("failed to create migration")
		}
		logging.Info().Str("name", *name).Msg("migration created")
		return
	}

	dsn := postgresDSN()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logging.Fatal().Err(err).Str("dsn", config.RedactDSN(dsn)).Msg("failed to connect to database")
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		logging.Fatal().Err(err).Msg("failed to set dialect")
	}

	switch *command {
	case "up":
		if err := goose.UpContext(ctx, db, dir); err != nil {
			logging.Fatal().Err(err).Msg("failed to run migrations")
		}
		logging.Info().Msg("migrations applied")
	case "down":
		if err := goose.DownContext(ctx, db, dir); err != nil {
			logging.Fatal().Err(err).Msg("failed to roll back migration")
		}
		logging.Info().Msg("migration rolled back")
	case "status":
		if err := goose.StatusContext(ctx, db, dir); err != nil {
			logging.Fatal().Err(err).Msg("failed to check migration status")
		}
	default:
		logging.Fatal().Str("command", *command).Msg("unknown command, use: up, down, status, create")
	}
}
