package account

import (
	"context"
	"time"
)

// Storage is the persistence the account service needs. Implementations
// return the package's not-found errors for missing rows.
type Storage interface {
	GetAccount(ctx context.Context, id int64) (Account, error)
	GetAccountByJoinPassword(ctx context.Context, password string) (Account, error)
	GetAccountByStripeCustomerID(ctx context.Context, customerID string) (Account, error)
	// UpdateAccount returns ErrJoinPasswordTaken when a new join password
	// collides with another account's.
	UpdateAccount(ctx context.Context, id int64, upd AccountUpdate) (Account, error)
	// RolloverPeriod moves current_period_ends from "from" to "to" and zeroes
	// ai_gen_count, but only while the stored period end still equals from.
	// Otherwise it returns ErrPeriodChanged.
	RolloverPeriod(ctx context.Context, id int64, from, to time.Time) (Account, error)
	// IncrementAIGenCount adds one to ai_gen_count in a single statement.
	IncrementAIGenCount(ctx context.Context, id int64) (Account, error)
	CountAccountNotes(ctx context.Context, accountID int64) (int, error)

	GetPlan(ctx context.Context, id int64) (Plan, error)
	GetPlanByStripeProductID(ctx context.Context, productID string) (Plan, error)

	GetMembership(ctx context.Context, id int64) (Membership, error)
	GetUserMembership(ctx context.Context, userID, accountID int64) (Membership, error)
	ListAccountMembers(ctx context.Context, accountID int64) ([]MembershipWithUser, error)
	// CreateMembership returns ErrAlreadyMember on a duplicate (user, account).
	CreateMembership(ctx context.Context, m Membership) (Membership, error)
	SetMembershipPending(ctx context.Context, id int64, pending bool) (Membership, error)
	SetMembershipAccess(ctx context.Context, id int64, access Access) (Membership, error)
	// DowngradeOwners turns every OWNER membership of the account into ADMIN.
	DowngradeOwners(ctx context.Context, accountID int64) error
	DeleteMembership(ctx context.Context, id int64) (Membership, error)

	// WithTx runs fn in a transaction. Storage calls made with the context
	// passed to fn join that transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
