package account

import "errors"

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrPlanNotFound       = errors.New("plan not found")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")

	ErrMembershipAccountMismatch = errors.New("membership does not belong to the account")
	ErrAlreadyMember             = errors.New("user is already a member of the account")
	ErrTooManyMembers            = errors.New("account has reached its member limit")
	ErrAlreadyOwner              = errors.New("user is already the owner of the account")
	ErrOnlyAdminsCanClaim        = errors.New("only admins can claim ownership")
	ErrUseClaimOwnership         = errors.New("ownership can only be changed by claiming it")
	ErrInvalidAccess             = errors.New("invalid access level")

	ErrAIGenLimitReached = errors.New("ai generation limit reached")
	ErrNoteLimitReached  = errors.New("note limit reached")

	// ErrJoinPasswordTaken is returned by storage when a generated join
	// password collides with an existing one.
	ErrJoinPasswordTaken = errors.New("join password already in use")
	// ErrPeriodChanged is returned by storage when a conditional rollover
	// finds the period end already moved by someone else.
	ErrPeriodChanged = errors.New("account period changed concurrently")
)

// IsLimitError reports whether err is one of the usage limit errors.
func IsLimitError(err error) bool {
	return errors.Is(err, ErrAIGenLimitReached) || errors.Is(err, ErrNoteLimitReached)
}
