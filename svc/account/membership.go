package account

import (
	"context"

	"github.com/dmitrymomot/notesaas/pkg/logger"
)

// membershipInAccount loads a membership and checks it belongs to accountID.
func (s *Service) membershipInAccount(ctx context.Context, accountID, membershipID int64) (Membership, error) {
	m, err := s.store.GetMembership(ctx, membershipID)
	if err != nil {
		return Membership{}, err
	}
	if m.AccountID != accountID {
		return Membership{}, ErrMembershipAccountMismatch
	}
	return m, nil
}

func (s *Service) AcceptPendingMembership(ctx context.Context, accountID, membershipID int64) (MembershipWithAccount, error) {
	if _, err := s.membershipInAccount(ctx, accountID, membershipID); err != nil {
		return MembershipWithAccount{}, err
	}
	m, err := s.store.SetMembershipPending(ctx, membershipID, false)
	if err != nil {
		return MembershipWithAccount{}, err
	}
	acc, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return MembershipWithAccount{}, err
	}
	return MembershipWithAccount{Membership: m, Account: acc}, nil
}

// DeleteMembership removes a membership of accountID. Rejecting a pending
// request goes through here as well.
func (s *Service) DeleteMembership(ctx context.Context, accountID, membershipID int64) (Membership, error) {
	if _, err := s.membershipInAccount(ctx, accountID, membershipID); err != nil {
		return Membership{}, err
	}
	m, err := s.store.DeleteMembership(ctx, membershipID)
	if err != nil {
		return Membership{}, err
	}
	s.log.InfoContext(ctx, "membership deleted",
		logger.AccountID(accountID), logger.MembershipID(membershipID))
	return m, nil
}

// JoinUserToAccount adds userID to accountID with READ_ONLY access.
func (s *Service) JoinUserToAccount(ctx context.Context, userID, accountID int64, pending bool) (MembershipWithAccount, error) {
	var out MembershipWithAccount
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		acc, err := s.store.GetAccount(ctx, accountID)
		if err != nil {
			return err
		}
		members, err := s.store.ListAccountMembers(ctx, accountID)
		if err != nil {
			return err
		}
		if len(members) >= acc.MaxMembers {
			return ErrTooManyMembers
		}
		for _, m := range members {
			if m.UserID == userID {
				return ErrAlreadyMember
			}
		}

		m, err := s.store.CreateMembership(ctx, Membership{
			UserID:    userID,
			AccountID: accountID,
			Access:    AccessReadOnly,
			Pending:   pending,
		})
		if err != nil {
			return err
		}
		out = MembershipWithAccount{Membership: m, Account: acc}
		return nil
	})
	if err != nil {
		return MembershipWithAccount{}, err
	}
	s.log.InfoContext(ctx, "user joined account",
		logger.UserID(userID), logger.AccountID(accountID), logger.MembershipID(out.ID))
	return out, nil
}

// ClaimOwnershipOfAccount makes an ADMIN the account owner. Existing owners
// are downgraded to ADMIN in the same transaction.
func (s *Service) ClaimOwnershipOfAccount(ctx context.Context, userID, accountID int64) ([]MembershipWithUser, error) {
	var members []MembershipWithUser
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		m, err := s.store.GetUserMembership(ctx, userID, accountID)
		if err != nil {
			return err
		}
		switch m.Access {
		case AccessOwner:
			return ErrAlreadyOwner
		case AccessAdmin:
		default:
			return ErrOnlyAdminsCanClaim
		}

		if err := s.store.DowngradeOwners(ctx, accountID); err != nil {
			return err
		}
		if _, err := s.store.SetMembershipAccess(ctx, m.ID, AccessOwner); err != nil {
			return err
		}
		members, err = s.store.ListAccountMembers(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "account ownership claimed",
		logger.UserID(userID), logger.AccountID(accountID))
	return members, nil
}

// ChangeUserAccessWithinAccount sets the access of userID's membership.
// Ownership cannot be granted or taken away here.
func (s *Service) ChangeUserAccessWithinAccount(ctx context.Context, userID, accountID int64, access Access) (MembershipWithAccount, error) {
	if !access.Valid() {
		return MembershipWithAccount{}, ErrInvalidAccess
	}
	if access == AccessOwner {
		return MembershipWithAccount{}, ErrUseClaimOwnership
	}

	m, err := s.store.GetUserMembership(ctx, userID, accountID)
	if err != nil {
		return MembershipWithAccount{}, err
	}
	if m.Access == AccessOwner {
		return MembershipWithAccount{}, ErrUseClaimOwnership
	}

	m, err = s.store.SetMembershipAccess(ctx, m.ID, access)
	if err != nil {
		return MembershipWithAccount{}, err
	}
	acc, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return MembershipWithAccount{}, err
	}
	return MembershipWithAccount{Membership: m, Account: acc}, nil
}
