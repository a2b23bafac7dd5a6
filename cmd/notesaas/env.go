package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notesaas/internal/db"
	"github.com/dmitrymomot/notesaas/pkg/config"
	"github.com/dmitrymomot/notesaas/pkg/pg"
)

// loadConfig reads the --env-file files, then parses the environment into T.
func loadConfig[T any]() (T, error) {
	var cfg T
	if len(envFiles) > 0 {
		if err := config.LoadEnv(envFiles...); err != nil {
			return cfg, err
		}
	}
	err := config.Load(&cfg)
	return cfg, err
}

// connect opens the pool and, when migrate is set, applies pending
// migrations.
func connect(ctx context.Context, log *slog.Logger, migrate bool) (*pgxpool.Pool, pg.Config, error) {
	var cfg pg.Config
	if err := config.Load(&cfg); err != nil {
		return nil, cfg, err
	}
	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		return nil, cfg, fmt.Errorf("connect to database: %w", err)
	}
	if migrate {
		if err := pg.Migrate(ctx, pool, db.Migrations, db.MigrationsDir, pg.MigrateUp, cfg, log); err != nil {
			pool.Close()
			return nil, cfg, err
		}
	}
	return pool, cfg, nil
}
