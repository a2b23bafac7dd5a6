package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/notesaas/internal/app"
	"github.com/dmitrymomot/notesaas/internal/memstore"
	"github.com/dmitrymomot/notesaas/internal/repository"
	"github.com/dmitrymomot/notesaas/pkg/httpserver"
	"github.com/dmitrymomot/notesaas/pkg/llm"
	"github.com/dmitrymomot/notesaas/pkg/logger"
	"github.com/dmitrymomot/notesaas/pkg/pg"
	"github.com/dmitrymomot/notesaas/svc/account"
	"github.com/dmitrymomot/notesaas/svc/billing"
)

var (
	serveInMemory bool
	serveMigrate  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServer(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveInMemory, "in-memory", false, "keep data in memory instead of PostgreSQL")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "apply pending migrations on startup")
}

func runServer(ctx context.Context) error {
	cfg, err := loadConfig[app.Config]()
	if err != nil {
		return err
	}
	log := app.NewLogger(cfg.Log)
	logger.SetAsDefault(log)

	deps := app.Deps{Logger: log}

	if serveInMemory {
		store := memstore.New()
		if _, err := account.SeedPlans(ctx, store, account.DefaultPlans(cfg.Accounts.InitialPlanName, cfg.Plans)); err != nil {
			return err
		}
		deps.Store = store
		log.WarnContext(ctx, "serving from memory; data is lost on exit")
	} else {
		pool, _, err := connect(ctx, log, serveMigrate)
		if err != nil {
			return err
		}
		defer pool.Close()
		deps.Store = repository.New(pool)
		deps.Readiness = append(deps.Readiness, httpserver.Check{Name: "postgres", Func: pg.Healthcheck(pool)})
	}

	deps.Generator, err = llm.New(ctx, cfg.LLM)
	if err != nil {
		return err
	}
	if cfg.Billing.SecretKey != "" {
		deps.Gateway = billing.NewStripeGateway(cfg.Billing.SecretKey)
	} else {
		log.InfoContext(ctx, "STRIPE_SECRET_KEY is not set; checkout and portal are disabled")
	}

	a, err := app.New(ctx, cfg, deps)
	if err != nil {
		return err
	}

	srv := httpserver.New(cfg.HTTP, httpserver.WithLogger(log))
	if err := srv.Run(ctx, a.Handler()); err != nil {
		log.ErrorContext(ctx, "server failed", logger.Error(err))
		return err
	}
	return nil
}
