// Package app assembles the services and the HTTP surface of the server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notesaas/modules/rpc"
	"github.com/dmitrymomot/notesaas/pkg/cookie"
	"github.com/dmitrymomot/notesaas/pkg/httpserver"
	"github.com/dmitrymomot/notesaas/pkg/jwt"
	"github.com/dmitrymomot/notesaas/pkg/llm"
	"github.com/dmitrymomot/notesaas/pkg/logger"
	"github.com/dmitrymomot/notesaas/pkg/metrics"
	"github.com/dmitrymomot/notesaas/pkg/rbac"
	"github.com/dmitrymomot/notesaas/pkg/requestid"
	"github.com/dmitrymomot/notesaas/svc/account"
	"github.com/dmitrymomot/notesaas/svc/auth"
	"github.com/dmitrymomot/notesaas/svc/billing"
	"github.com/dmitrymomot/notesaas/svc/notes"
)

// Store is everything the services persist. Both the Postgres repository
// and the in-memory store implement it.
type Store interface {
	account.Storage
	auth.Storage
	notes.Storage
	account.PlanUpserter
}

type Deps struct {
	Store     Store
	Generator llm.Generator
	// Gateway is nil when Stripe is not configured.
	Gateway   billing.Gateway
	Readiness []httpserver.Check
	Logger    *slog.Logger
}

type App struct {
	Accounts *account.Service
	Notes    *notes.Service
	Auth     *auth.Service
	Billing  *billing.Service

	tokens    *jwt.Service
	authz     *rbac.Authorizer
	cookies   *cookie.Manager
	authCfg   auth.Config
	readiness []httpserver.Check
	log       *slog.Logger
}

func New(ctx context.Context, cfg Config, deps Deps) (*App, error) {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	var tokenOpts []jwt.Option
	if cfg.Auth.JWTIssuer != "" {
		tokenOpts = append(tokenOpts, jwt.WithIssuer(cfg.Auth.JWTIssuer))
	}
	if cfg.Auth.JWTAudience != "" {
		tokenOpts = append(tokenOpts, jwt.WithAudience(cfg.Auth.JWTAudience))
	}
	if cfg.Auth.JWTLeeway > 0 {
		tokenOpts = append(tokenOpts, jwt.WithLeeway(cfg.Auth.JWTLeeway))
	}
	tokens, err := jwt.NewFromString(cfg.Auth.JWTSecret, tokenOpts...)
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}

	authz, err := rbac.NewAuthorizer(ctx, account.RoleSource())
	if err != nil {
		return nil, fmt.Errorf("rbac: %w", err)
	}

	accounts := account.NewService(deps.Store, cfg.Accounts, account.WithLogger(log))
	return &App{
		Accounts:  accounts,
		Notes:     notes.NewService(deps.Store, accounts, deps.Generator, notes.WithLogger(log)),
		Auth:      auth.NewService(deps.Store, cfg.Accounts, auth.WithLogger(log)),
		Billing:   billing.NewService(accounts, deps.Gateway, cfg.Billing, billing.WithLogger(log)),
		tokens:    tokens,
		authz:     authz,
		cookies:   cookie.NewFromConfig(cfg.Cookie),
		authCfg:   cfg.Auth,
		readiness: deps.Readiness,
		log:       log,
	}, nil
}

// Handler routes:
//
//	GET  /health/live, /health/ready
//	GET  /metrics
//	POST /webhooks/stripe
//	POST /rpc/<router>.<procedure>
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(a.log, a.readiness...))
	r.Handle("/metrics", metrics.Handler())
	r.Post("/webhooks/stripe", rpc.WebhookHandler(a.Billing, a.log))

	extractor := jwt.TokenExtractorFunc(jwt.BearerTokenExtractor)
	if a.authCfg.TokenCookie != "" {
		extractor = jwt.ChainExtractors(extractor, jwt.CookieTokenExtractor(a.authCfg.TokenCookie))
	}

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(auth.MiddlewareConfig{
			Service:   a.Auth,
			Verifier:  a.tokens,
			Cookies:   a.cookies,
			Extractor: extractor,
			Logger:    a.log,
		}))
		r.Mount("/rpc", rpc.Router(rpc.RouterOptions{
			Accounts:   a.Accounts,
			Notes:      a.Notes,
			Auth:       a.Auth,
			Billing:    a.Billing,
			Authorizer: a.authz,
			Cookies:    a.cookies,
			Logger:     a.log,
		}))
	})
	return r
}

// NewLogger builds the process logger with request and identity attributes.
func NewLogger(cfg LogConfig) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.ServiceName),
		logger.WithContextExtractors(requestid.LoggerExtractor(), auth.LoggerExtractor()),
	}
	if cfg.Level != "" {
		opts = append(opts, logger.WithLevelName(cfg.Level))
	}
	return logger.New(opts...)
}
