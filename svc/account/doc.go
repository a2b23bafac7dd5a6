// Package account owns the tenant model: accounts, plans, memberships with
// their access levels, and the per-period usage counters that plans limit.
//
// Accounts on the initial plan have no payment provider driving their
// billing period, so their period is rolled over lazily when usage is read:
//
//	acc, err := svc.CheckAIGenCount(ctx, accountID)
//	if errors.Is(err, account.ErrAIGenLimitReached) {
//		// tell the caller to upgrade
//	}
//	// ... do the work ...
//	_, err = svc.IncrementAIGenCount(ctx, acc)
//
// Membership access levels double as rbac roles (see Roles), each inheriting
// the permissions of the level below it.
package account
