package rpc

import (
	"github.com/dmitrymomot/notesaas/handler"
	"github.com/dmitrymomot/notesaas/svc/auth"
)

type authProcedures struct {
	auth *auth.Service
}

func (p *authProcedures) register(r router) {
	procedure(r, "deleteUser", p.deleteUser, protected[empty]())
}

func (p *authProcedures) deleteUser(ctx handler.Context, _ empty) handler.Response {
	user, _ := auth.UserFromContext(ctx)
	if err := p.auth.DeleteUser(ctx, user.ID); err != nil {
		return fail(err)
	}
	return handler.Empty()
}
