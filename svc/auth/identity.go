package auth

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/notesaas/pkg/logger"
	"github.com/dmitrymomot/notesaas/svc/account"
)

// Identity is who is calling and in which account they act.
type Identity struct {
	User *account.FullUser
	// ActiveAccountID is 0 when the user has no usable membership.
	ActiveAccountID int64
}

// ActiveMembership returns the user's membership in the active account.
func (id *Identity) ActiveMembership() (account.MembershipWithAccount, bool) {
	if id == nil || id.User == nil || id.ActiveAccountID == 0 {
		return account.MembershipWithAccount{}, false
	}
	return id.User.Membership(id.ActiveAccountID)
}

// ResolveActiveAccount picks the preferred account when the user holds an
// accepted membership in it, and otherwise the first accepted membership.
func ResolveActiveAccount(u *account.FullUser, preferred int64) int64 {
	if u == nil {
		return 0
	}
	active := u.ActiveMemberships()
	for _, m := range active {
		if m.AccountID == preferred {
			return preferred
		}
	}
	if len(active) > 0 {
		return active[0].AccountID
	}
	return 0
}

type identityContextKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext returns nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityContextKey{}).(*Identity)
	return id
}

// UserFromContext returns the authenticated database user, if any.
func UserFromContext(ctx context.Context) (*account.FullUser, bool) {
	id := IdentityFromContext(ctx)
	if id == nil || id.User == nil {
		return nil, false
	}
	return id.User, true
}

// LoggerExtractor adds user_id and account_id to log records.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id := IdentityFromContext(ctx)
		if id == nil || id.User == nil {
			return slog.Attr{}, false
		}
		attrs := []slog.Attr{logger.UserID(id.User.ID)}
		if id.ActiveAccountID != 0 {
			attrs = append(attrs, logger.AccountID(id.ActiveAccountID))
		}
		return logger.Group("auth", attrs...), true
	}
}

// SwitchAccount makes accountID active. The user needs an accepted
// membership there.
func (id *Identity) SwitchAccount(accountID int64) error {
	if id == nil || id.User == nil {
		return ErrUnauthenticated
	}
	m, ok := id.User.Membership(accountID)
	if !ok {
		return account.ErrMembershipNotFound
	}
	if m.Pending {
		return ErrPendingMembership
	}
	id.ActiveAccountID = accountID
	return nil
}
