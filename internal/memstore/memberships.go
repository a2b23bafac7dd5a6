package memstore

import (
	"cmp"
	"context"
	"slices"

	"github.com/dmitrymomot/notesaas/svc/account"
)

func (s *Store) GetMembership(_ context.Context, id int64) (account.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.t.memberships[id]
	if !ok {
		return account.Membership{}, account.ErrMembershipNotFound
	}
	return m, nil
}

func (s *Store) GetUserMembership(_ context.Context, userID, accountID int64) (account.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.t.memberships {
		if m.UserID == userID && m.AccountID == accountID {
			return m, nil
		}
	}
	return account.Membership{}, account.ErrMembershipNotFound
}

// sortedMemberships must be called with mu held.
func (s *Store) sortedMemberships(match func(account.Membership) bool) []account.Membership {
	var out []account.Membership
	for _, m := range s.t.memberships {
		if match(m) {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b account.Membership) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (s *Store) ListAccountMembers(_ context.Context, accountID int64) ([]account.MembershipWithUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ms := s.sortedMemberships(func(m account.Membership) bool { return m.AccountID == accountID })
	out := make([]account.MembershipWithUser, 0, len(ms))
	for _, m := range ms {
		out = append(out, account.MembershipWithUser{Membership: m, User: s.t.users[m.UserID]})
	}
	return out, nil
}

func (s *Store) ListUserMemberships(_ context.Context, userID int64) ([]account.MembershipWithAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ms := s.sortedMemberships(func(m account.Membership) bool { return m.UserID == userID })
	out := make([]account.MembershipWithAccount, 0, len(ms))
	for _, m := range ms {
		out = append(out, account.MembershipWithAccount{Membership: m, Account: s.t.accounts[m.AccountID]})
	}
	return out, nil
}

func (s *Store) CreateMembership(ctx context.Context, m account.Membership) (account.Membership, error) {
	defer s.lock(ctx)()
	if _, ok := s.t.users[m.UserID]; !ok {
		return account.Membership{}, account.ErrUserNotFound
	}
	if _, ok := s.t.accounts[m.AccountID]; !ok {
		return account.Membership{}, account.ErrAccountNotFound
	}
	for _, existing := range s.t.memberships {
		if existing.UserID == m.UserID && existing.AccountID == m.AccountID {
			return account.Membership{}, account.ErrAlreadyMember
		}
	}
	if m.Access == "" {
		m.Access = account.AccessReadOnly
	}
	m.ID = s.nextID()
	set(ctx, s.t.memberships, m.ID, m)
	return m, nil
}

func (s *Store) updateMembership(ctx context.Context, id int64, fn func(*account.Membership)) (account.Membership, error) {
	defer s.lock(ctx)()
	m, ok := s.t.memberships[id]
	if !ok {
		return account.Membership{}, account.ErrMembershipNotFound
	}
	fn(&m)
	set(ctx, s.t.memberships, id, m)
	return m, nil
}

func (s *Store) SetMembershipPending(ctx context.Context, id int64, pending bool) (account.Membership, error) {
	return s.updateMembership(ctx, id, func(m *account.Membership) { m.Pending = pending })
}

func (s *Store) SetMembershipAccess(ctx context.Context, id int64, access account.Access) (account.Membership, error) {
	return s.updateMembership(ctx, id, func(m *account.Membership) { m.Access = access })
}

func (s *Store) DowngradeOwners(ctx context.Context, accountID int64) error {
	defer s.lock(ctx)()
	for id, m := range s.t.memberships {
		if m.AccountID == accountID && m.Access == account.AccessOwner {
			m.Access = account.AccessAdmin
			set(ctx, s.t.memberships, id, m)
		}
	}
	return nil
}

func (s *Store) DeleteMembership(ctx context.Context, id int64) (account.Membership, error) {
	defer s.lock(ctx)()
	m, ok := s.t.memberships[id]
	if !ok {
		return account.Membership{}, account.ErrMembershipNotFound
	}
	del(ctx, s.t.memberships, id)
	return m, nil
}

func (s *Store) DeleteUserMemberships(ctx context.Context, userID int64) error {
	defer s.lock(ctx)()
	for id, m := range s.t.memberships {
		if m.UserID == userID {
			del(ctx, s.t.memberships, id)
		}
	}
	return nil
}
