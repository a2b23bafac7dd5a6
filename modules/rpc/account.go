package rpc

import (
	"github.com/dmitrymomot/notesaas/handler"
	"github.com/dmitrymomot/notesaas/pkg/cookie"
	"github.com/dmitrymomot/notesaas/pkg/rbac"
	"github.com/dmitrymomot/notesaas/pkg/sanitizer"
	"github.com/dmitrymomot/notesaas/pkg/validator"
	"github.com/dmitrymomot/notesaas/svc/account"
	"github.com/dmitrymomot/notesaas/svc/auth"
)

const maxAccountNameLength = 255

type accountProcedures struct {
	accounts *account.Service
	authz    *rbac.Authorizer
	cookies  *cookie.Manager
}

func (p *accountProcedures) register(r router) {
	procedure(r, "getDBUser", p.getDBUser)
	procedure(r, "getActiveAccountId", p.getActiveAccountID)
	procedure(r, "changeActiveAccount", p.changeActiveAccount, protected[accountIDInput]())
	procedure(r, "changeAccountName", p.changeAccountName,
		requires[changeAccountNameInput](p.authz, account.PermAccountManage))
	procedure(r, "rotateJoinPassword", p.rotateJoinPassword,
		requires[empty](p.authz, account.PermAccountManage))
	procedure(r, "getAccountByJoinPassword", p.getAccountByJoinPassword)
	procedure(r, "joinUserToAccountPending", p.joinUserToAccountPending)
	procedure(r, "acceptPendingMembership", p.acceptPendingMembership,
		requires[membershipIDInput](p.authz, account.PermMembersManage))
	procedure(r, "rejectPendingMembership", p.rejectPendingMembership,
		requires[membershipIDInput](p.authz, account.PermMembersManage))
	procedure(r, "deleteMembership", p.deleteMembership,
		requires[membershipIDInput](p.authz, account.PermMembersDelete))
	procedure(r, "changeUserAccessWithinAccount", p.changeUserAccessWithinAccount,
		requires[changeAccessInput](p.authz, account.PermMembersManage))
	procedure(r, "claimOwnershipOfAccount", p.claimOwnershipOfAccount,
		requires[empty](p.authz, account.PermOwnershipClaim))
	procedure(r, "getAccountMembers", p.getAccountMembers,
		requires[empty](p.authz, account.PermMembersManage))
}

type accountIDInput struct {
	AccountID int64 `json:"account_id"`
}

func (in accountIDInput) Validate() error {
	return validator.Apply(validator.Positive("account_id", in.AccountID))
}

type changeAccountNameInput struct {
	NewName string `json:"new_name"`
}

func (in *changeAccountNameInput) Sanitize() { in.NewName = sanitizer.SingleLine(in.NewName) }

func (in changeAccountNameInput) Validate() error {
	return validator.Apply(
		validator.RequiredString("new_name", in.NewName),
		validator.MaxLenString("new_name", in.NewName, maxAccountNameLength),
	)
}

type joinPasswordInput struct {
	JoinPassword string `json:"join_password"`
}

func (in *joinPasswordInput) Sanitize() { in.JoinPassword = sanitizer.Trim(in.JoinPassword) }

func (in joinPasswordInput) Validate() error {
	return validator.Apply(validator.RequiredString("join_password", in.JoinPassword))
}

type joinInput struct {
	AccountID int64 `json:"account_id"`
	UserID    int64 `json:"user_id"`
}

func (in joinInput) Validate() error {
	return validator.Apply(
		validator.Positive("account_id", in.AccountID),
		validator.Positive("user_id", in.UserID),
	)
}

type membershipIDInput struct {
	MembershipID int64 `json:"membership_id"`
}

func (in membershipIDInput) Validate() error {
	return validator.Apply(validator.Positive("membership_id", in.MembershipID))
}

type changeAccessInput struct {
	UserID int64          `json:"user_id"`
	Access account.Access `json:"access"`
}

func (in changeAccessInput) Validate() error {
	return validator.Apply(
		validator.Positive("user_id", in.UserID),
		validator.OneOf("access", in.Access, account.Accesses()...),
	)
}

func (p *accountProcedures) getDBUser(ctx handler.Context, _ empty) handler.Response {
	user, _ := auth.UserFromContext(ctx)
	return handler.JSON(map[string]any{"dbUser": user})
}

func (p *accountProcedures) getActiveAccountID(ctx handler.Context, _ empty) handler.Response {
	var active *int64
	if id := auth.IdentityFromContext(ctx); id != nil && id.ActiveAccountID != 0 {
		active = &id.ActiveAccountID
	}
	return handler.JSON(map[string]any{"activeAccountId": active})
}

func (p *accountProcedures) changeActiveAccount(ctx handler.Context, in accountIDInput) handler.Response {
	id := auth.IdentityFromContext(ctx)
	if err := id.SwitchAccount(in.AccountID); err != nil {
		return fail(err)
	}
	auth.SetActiveAccountCookie(ctx.ResponseWriter(), p.cookies, in.AccountID)
	return handler.JSON(map[string]any{"activeAccountId": id.ActiveAccountID})
}

func (p *accountProcedures) changeAccountName(ctx handler.Context, in changeAccountNameInput) handler.Response {
	acc, err := p.accounts.ChangeAccountName(ctx, activeAccountID(ctx), in.NewName)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(map[string]any{"account": acc})
}

func (p *accountProcedures) rotateJoinPassword(ctx handler.Context, _ empty) handler.Response {
	acc, err := p.accounts.RotateJoinPassword(ctx, activeAccountID(ctx))
	if err != nil {
		return fail(err)
	}
	return handler.JSON(map[string]any{"account": acc})
}

func (p *accountProcedures) getAccountByJoinPassword(ctx handler.Context, in joinPasswordInput) handler.Response {
	acc, err := p.accounts.GetAccountByJoinPassword(ctx, in.JoinPassword)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(map[string]any{"account": acc})
}

// joinUserToAccountPending takes the account id from the input: the joining
// user is usually active in another account.
func (p *accountProcedures) joinUserToAccountPending(ctx handler.Context, in joinInput) handler.Response {
	m, err := p.accounts.JoinUserToAccount(ctx, in.UserID, in.AccountID, true)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(map[string]any{"membership": m})
}

func (p *accountProcedures) acceptPendingMembership(ctx handler.Context, in membershipIDInput) handler.Response {
	m, err := p.accounts.AcceptPendingMembership(ctx, activeAccountID(ctx), in.MembershipID)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(map[string]any{"membership": m})
}

func (p *accountProcedures) rejectPendingMembership(ctx handler.Context, in membershipIDInput) handler.Response {
	m, err := p.accounts.DeleteMembership(ctx, activeAccountID(ctx), in.MembershipID)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(map[string]any{"membership": m})
}

func (p *accountProcedures) deleteMembership(ctx handler.Context, in membershipIDInput) handler.Response {
	return p.rejectPendingMembership(ctx, in)
}

func (p *accountProcedures) changeUserAccessWithinAccount(ctx handler.Context, in changeAccessInput) handler.Response {
	m, err := p.accounts.ChangeUserAccessWithinAccount(ctx, in.UserID, activeAccountID(ctx), in.Access)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(map[string]any{"membership": m})
}

func (p *accountProcedures) claimOwnershipOfAccount(ctx handler.Context, _ empty) handler.Response {
	user, _ := auth.UserFromContext(ctx)
	ms, err := p.accounts.ClaimOwnershipOfAccount(ctx, user.ID, activeAccountID(ctx))
	if err != nil {
		return fail(err)
	}
	return handler.JSON(map[string]any{"memberships": ms})
}

func (p *accountProcedures) getAccountMembers(ctx handler.Context, _ empty) handler.Response {
	ms, err := p.accounts.GetAccountMembers(ctx, activeAccountID(ctx))
	if err != nil {
		return fail(err)
	}
	return handler.JSON(map[string]any{"memberships": ms})
}
