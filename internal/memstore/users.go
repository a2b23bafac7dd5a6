package memstore

import (
	"context"

	"github.com/dmitrymomot/notesaas/svc/account"
)

func (s *Store) GetUser(_ context.Context, id int64) (account.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.t.users[id]
	if !ok {
		return account.User{}, account.ErrUserNotFound
	}
	return u, nil
}

func (s *Store) GetUserBySubject(_ context.Context, subject string) (account.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.t.users {
		if u.AuthSubject == subject {
			return u, nil
		}
	}
	return account.User{}, account.ErrUserNotFound
}

func (s *Store) CreateUser(ctx context.Context, u account.User) (account.User, error) {
	defer s.lock(ctx)()
	for _, existing := range s.t.users {
		if existing.AuthSubject == u.AuthSubject {
			return account.User{}, account.ErrUserExists
		}
	}
	u.ID = s.nextID()
	set(ctx, s.t.users, u.ID, u)
	return u, nil
}

// DeleteUser removes the user. Like the database, it refuses while the user
// still has memberships.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	defer s.lock(ctx)()
	if _, ok := s.t.users[id]; !ok {
		return account.ErrUserNotFound
	}
	for _, m := range s.t.memberships {
		if m.UserID == id {
			return ErrRestricted
		}
	}
	del(ctx, s.t.users, id)
	return nil
}
