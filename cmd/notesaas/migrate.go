package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/notesaas/internal/app"
	"github.com/dmitrymomot/notesaas/internal/db"
	"github.com/dmitrymomot/notesaas/pkg/pg"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status|reset]",
	Short:     "Apply or inspect database migrations",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{pg.MigrateUp, pg.MigrateDown, pg.MigrateStatus, pg.MigrateReset},
	RunE: func(cmd *cobra.Command, args []string) error {
		command := pg.MigrateUp
		if len(args) == 1 {
			command = args[0]
		}

		cfg, err := loadConfig[app.LogConfig]()
		if err != nil {
			return err
		}
		log := app.NewLogger(cfg)
		ctx := cmd.Context()

		pool, pgCfg, err := connect(ctx, log, false)
		if err != nil {
			return err
		}
		defer pool.Close()
		return pg.Migrate(ctx, pool, db.Migrations, db.MigrationsDir, command, pgCfg, log)
	},
}
