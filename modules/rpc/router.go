package rpc

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notesaas/pkg/cookie"
	"github.com/dmitrymomot/notesaas/pkg/logger"
	"github.com/dmitrymomot/notesaas/pkg/rbac"
	"github.com/dmitrymomot/notesaas/svc/account"
	"github.com/dmitrymomot/notesaas/svc/auth"
	"github.com/dmitrymomot/notesaas/svc/billing"
	"github.com/dmitrymomot/notesaas/svc/notes"
)

// RouterOptions wires the services behind the procedures. Billing is
// optional; without it the billing procedures are not mounted.
type RouterOptions struct {
	Accounts   *account.Service
	Notes      *notes.Service
	Auth       *auth.Service
	Billing    *billing.Service
	Authorizer *rbac.Authorizer
	Cookies    *cookie.Manager
	Logger     *slog.Logger
}

// Router mounts every procedure as POST /<router>.<procedure>. The auth
// middleware must run in front of it.
//
//	r := chi.NewRouter()
//	r.Use(auth.Middleware(authCfg))
//	r.Mount("/rpc", rpc.Router(opts))
func Router(opts RouterOptions) chi.Router {
	if opts.Cookies == nil {
		opts.Cookies = cookie.New()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With(logger.Component("rpc"))

	mux := chi.NewRouter()
	ns := func(name string) router {
		return router{mux: mux, namespace: name, log: log}
	}

	(&accountProcedures{
		accounts: opts.Accounts,
		authz:    opts.Authorizer,
		cookies:  opts.Cookies,
	}).register(ns("account"))

	(&notesProcedures{
		notes: opts.Notes,
		authz: opts.Authorizer,
	}).register(ns("notes"))

	(&authProcedures{auth: opts.Auth}).register(ns("auth"))

	if opts.Billing != nil {
		(&billingProcedures{
			billing: opts.Billing,
			authz:   opts.Authorizer,
		}).register(ns("billing"))
	}

	return mux
}
