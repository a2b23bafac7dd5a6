package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/notesaas/internal/app"
	"github.com/dmitrymomot/notesaas/internal/repository"
	"github.com/dmitrymomot/notesaas/pkg/logger"
	"github.com/dmitrymomot/notesaas/svc/account"
)

type seedConfig struct {
	Log      app.LogConfig
	Accounts account.Config
	Plans    account.PlanProducts
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create or update the default plans",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig[seedConfig]()
		if err != nil {
			return err
		}
		log := app.NewLogger(cfg.Log)
		ctx := cmd.Context()

		pool, _, err := connect(ctx, log, true)
		if err != nil {
			return err
		}
		defer pool.Close()

		plans, err := account.SeedPlans(ctx, repository.New(pool),
			account.DefaultPlans(cfg.Accounts.InitialPlanName, cfg.Plans))
		if err != nil {
			return err
		}
		for _, p := range plans {
			log.InfoContext(ctx, "plan seeded", logger.PlanID(p.ID), "name", p.Name)
		}
		return nil
	},
}
