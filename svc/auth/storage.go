package auth

import (
	"context"

	"github.com/dmitrymomot/notesaas/svc/account"
)

// Storage is the persistence the auth service needs.
type Storage interface {
	GetUser(ctx context.Context, id int64) (account.User, error)
	GetUserBySubject(ctx context.Context, subject string) (account.User, error)
	// CreateUser returns account.ErrUserExists for a duplicate subject.
	CreateUser(ctx context.Context, u account.User) (account.User, error)
	// DeleteUser fails while the user still has memberships.
	DeleteUser(ctx context.Context, id int64) error
	DeleteUserMemberships(ctx context.Context, userID int64) error
	ListUserMemberships(ctx context.Context, userID int64) ([]account.MembershipWithAccount, error)
	ListAccountMembers(ctx context.Context, accountID int64) ([]account.MembershipWithUser, error)

	GetPlanByName(ctx context.Context, name string) (account.Plan, error)
	// CreateAccount returns account.ErrJoinPasswordTaken on a password collision.
	CreateAccount(ctx context.Context, a account.Account) (account.Account, error)
	CreateMembership(ctx context.Context, m account.Membership) (account.Membership, error)

	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
