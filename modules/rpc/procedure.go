package rpc

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notesaas/handler"
	"github.com/dmitrymomot/notesaas/pkg/binder"
	"github.com/dmitrymomot/notesaas/pkg/logger"
	"github.com/dmitrymomot/notesaas/pkg/metrics"
	"github.com/dmitrymomot/notesaas/pkg/rbac"
	"github.com/dmitrymomot/notesaas/svc/auth"
)

type validatable interface {
	Validate() error
}

// errorResponse hands err to the error handler, which classifies, logs and
// renders it.
type errorResponse struct{ err error }

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error { return e.err }

func fail(err error) handler.Response {
	return errorResponse{err: err}
}

// router registers the procedures of one namespace, such as "account".
type router struct {
	mux       chi.Router
	namespace string
	log       *slog.Logger
}

// procedure mounts h at POST /<namespace>.<name>. Decorators run in order,
// before input validation.
func procedure[R any](r router, name string, h handler.HandlerFunc[handler.Context, R], decorators ...handler.Decorator[handler.Context, R]) {
	path := r.namespace + "." + name
	decorators = append(decorators, validated[R]())
	r.mux.Method(http.MethodPost, "/"+path, metrics.Instrument(path, handler.Wrap(h,
		handler.WithBinders[handler.Context, R](binder.JSON()),
		handler.WithErrorHandler[handler.Context, R](handler.NewErrorHandler(r.log.With(logger.Procedure(path)), Classify)),
		handler.WithDecorators(decorators...),
	)))
}

func validated[R any]() handler.Decorator[handler.Context, R] {
	return func(next handler.HandlerFunc[handler.Context, R]) handler.HandlerFunc[handler.Context, R] {
		return func(ctx handler.Context, req R) handler.Response {
			if v, ok := any(req).(validatable); ok {
				if err := v.Validate(); err != nil {
					return fail(err)
				}
			}
			return next(ctx, req)
		}
	}
}

// protected requires an authenticated database user.
func protected[R any]() handler.Decorator[handler.Context, R] {
	return func(next handler.HandlerFunc[handler.Context, R]) handler.HandlerFunc[handler.Context, R] {
		return func(ctx handler.Context, req R) handler.Response {
			if _, ok := auth.UserFromContext(ctx); !ok {
				return fail(auth.ErrUnauthenticated)
			}
			return next(ctx, req)
		}
	}
}

// requires checks permission against the access level of the caller's
// membership in the active account, stored as the rbac role by the auth
// middleware.
func requires[R any](authz *rbac.Authorizer, permission string) handler.Decorator[handler.Context, R] {
	return func(next handler.HandlerFunc[handler.Context, R]) handler.HandlerFunc[handler.Context, R] {
		return func(ctx handler.Context, req R) handler.Response {
			id := auth.IdentityFromContext(ctx)
			if id == nil || id.User == nil {
				return fail(auth.ErrUnauthenticated)
			}
			m, ok := id.ActiveMembership()
			if !ok {
				return fail(auth.ErrNoActiveAccount)
			}
			if m.Pending {
				return fail(auth.ErrPendingMembership)
			}
			if err := authz.CanFromContext(ctx, permission); err != nil {
				return fail(err)
			}
			return next(ctx, req)
		}
	}
}

// activeAccountID is only meaningful behind requires.
func activeAccountID(ctx handler.Context) int64 {
	if id := auth.IdentityFromContext(ctx); id != nil {
		return id.ActiveAccountID
	}
	return 0
}

// empty is the input of procedures that take none.
type empty struct{}
