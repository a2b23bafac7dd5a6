package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/notesaas/pkg/logger"
	"github.com/dmitrymomot/notesaas/svc/account"
)

const createAccountAttempts = 3

// Service manages database users and their personal accounts.
type Service struct {
	store    Storage
	accounts account.Config
	now      func() time.Time
	log      *slog.Logger
}

type ServiceOption func(*Service)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService creates the service. accounts configures the plan new users
// start on.
func NewService(store Storage, accounts account.Config, opts ...ServiceOption) *Service {
	s := &Service{
		store:    store,
		accounts: accounts.WithDefaults(),
		now:      time.Now,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("auth"))
	return s
}

func (s *Service) fullUser(ctx context.Context, u account.User) (*account.FullUser, error) {
	memberships, err := s.store.ListUserMemberships(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &account.FullUser{User: u, Memberships: memberships}, nil
}

// GetFullUserBySubject returns nil and no error when no user has the subject.
func (s *Service) GetFullUserBySubject(ctx context.Context, subject string) (*account.FullUser, error) {
	u, err := s.store.GetUserBySubject(ctx, subject)
	if errors.Is(err, account.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.fullUser(ctx, u)
}

func (s *Service) GetUserByID(ctx context.Context, id int64) (*account.FullUser, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.fullUser(ctx, u)
}

// CreateUser registers a user together with a personal account on the
// initial plan, owned by that user.
func (s *Service) CreateUser(ctx context.Context, subject, displayName, email string) (*account.FullUser, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, ErrMissingSubject
	}
	accountName := strings.TrimSpace(displayName)
	if accountName == "" {
		accountName = email
	}

	var out *account.FullUser
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		plan, err := s.store.GetPlanByName(ctx, s.accounts.InitialPlanName)
		if err != nil {
			return err
		}
		u, err := s.store.CreateUser(ctx, account.User{
			AuthSubject: subject,
			Email:       email,
			DisplayName: displayName,
		})
		if err != nil {
			return err
		}

		acc := account.Account{
			Name:              accountName,
			CurrentPeriodEnds: account.AddMonths(s.now(), s.accounts.InitialPlanActiveMonths),
		}
		acc.ApplyPlan(plan)
		if acc, err = s.createAccount(ctx, acc); err != nil {
			return err
		}

		if _, err := s.store.CreateMembership(ctx, account.Membership{
			UserID:    u.ID,
			AccountID: acc.ID,
			Access:    account.AccessOwner,
		}); err != nil {
			return err
		}

		out, err = s.fullUser(ctx, u)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "user created", logger.UserID(out.ID))
	return out, nil
}

func (s *Service) createAccount(ctx context.Context, acc account.Account) (account.Account, error) {
	var lastErr error
	for range createAccountAttempts {
		pw, err := account.GenerateJoinPassword()
		if err != nil {
			return account.Account{}, err
		}
		acc.JoinPassword = pw
		created, err := s.store.CreateAccount(ctx, acc)
		if !errors.Is(err, account.ErrJoinPasswordTaken) {
			return created, err
		}
		lastErr = err
	}
	return account.Account{}, lastErr
}

// DeleteUser removes the user and their memberships. Accounts and their
// notes are kept, even when the user was their only owner; such accounts
// are logged so an operator can hand them over.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	var ownerless []int64
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.GetUser(ctx, id); err != nil {
			return err
		}
		var err error
		if ownerless, err = s.soleOwnedAccounts(ctx, id); err != nil {
			return err
		}
		if err := s.store.DeleteUserMemberships(ctx, id); err != nil {
			return err
		}
		return s.store.DeleteUser(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.InfoContext(ctx, "user deleted", logger.UserID(id))
	if len(ownerless) > 0 {
		s.log.WarnContext(ctx, "accounts left without an owner",
			logger.UserID(id), logger.AccountIDs(ownerless))
	}
	return nil
}

// soleOwnedAccounts lists the accounts where userID is the only OWNER.
func (s *Service) soleOwnedAccounts(ctx context.Context, userID int64) ([]int64, error) {
	memberships, err := s.store.ListUserMemberships(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []int64
	for _, m := range memberships {
		if m.Access != account.AccessOwner {
			continue
		}
		members, err := s.store.ListAccountMembers(ctx, m.AccountID)
		if err != nil {
			return nil, err
		}
		sole := true
		for _, other := range members {
			if other.UserID != userID && other.Access == account.AccessOwner {
				sole = false
				break
			}
		}
		if sole {
			out = append(out, m.AccountID)
		}
	}
	return out, nil
}
