package account

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/notesaas/pkg/logger"
)

// joinPasswordAttempts bounds retries when a generated password collides.
const joinPasswordAttempts = 3

// Service implements account, membership and usage operations.
type Service struct {
	store Storage
	cfg   Config
	now   func() time.Time
	log   *slog.Logger
}

type ServiceOption func(*Service)

// WithClock overrides the time source used for period rollover.
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

func NewService(store Storage, cfg Config, opts ...ServiceOption) *Service {
	s := &Service{
		store: store,
		cfg:   cfg.WithDefaults(),
		now:   time.Now,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("account"))
	return s
}

// Config returns the effective configuration.
func (s *Service) Config() Config { return s.cfg }

func (s *Service) GetAccountByID(ctx context.Context, id int64) (AccountWithMembers, error) {
	acc, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return AccountWithMembers{}, err
	}
	return s.withMembers(ctx, acc)
}

func (s *Service) GetAccountByJoinPassword(ctx context.Context, password string) (AccountWithMembers, error) {
	acc, err := s.store.GetAccountByJoinPassword(ctx, password)
	if err != nil {
		return AccountWithMembers{}, err
	}
	return s.withMembers(ctx, acc)
}

func (s *Service) withMembers(ctx context.Context, acc Account) (AccountWithMembers, error) {
	members, err := s.store.ListAccountMembers(ctx, acc.ID)
	if err != nil {
		return AccountWithMembers{}, err
	}
	return AccountWithMembers{Account: acc, Members: members}, nil
}

// GetAccountMembers lists the memberships of one account with their users.
func (s *Service) GetAccountMembers(ctx context.Context, accountID int64) ([]MembershipWithUser, error) {
	if _, err := s.store.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	return s.store.ListAccountMembers(ctx, accountID)
}

func (s *Service) UpdateAccountStripeCustomerID(ctx context.Context, accountID int64, customerID string) (Account, error) {
	return s.store.UpdateAccount(ctx, accountID, AccountUpdate{StripeCustomerID: &customerID})
}

// UpdateStripeSubscriptionDetails records a subscription change reported by
// the payment provider. The usage counter is reset on every update; plan
// limits are copied only when the product maps to a different plan.
func (s *Service) UpdateStripeSubscriptionDetails(ctx context.Context, customerID, subscriptionID string, periodEnds time.Time, productID string) (Account, error) {
	acc, err := s.store.GetAccountByStripeCustomerID(ctx, customerID)
	if err != nil {
		return Account{}, err
	}
	plan, err := s.store.GetPlanByStripeProductID(ctx, productID)
	if err != nil {
		return Account{}, err
	}

	zero := 0
	upd := AccountUpdate{
		StripeSubscriptionID: &subscriptionID,
		CurrentPeriodEnds:    &periodEnds,
		AIGenCount:           &zero,
	}
	if acc.PlanID != plan.ID {
		upd.Plan = &plan
		s.log.InfoContext(ctx, "account plan changed by subscription",
			logger.AccountID(acc.ID), logger.PlanID(plan.ID))
	}
	return s.store.UpdateAccount(ctx, acc.ID, upd)
}

func (s *Service) ChangeAccountName(ctx context.Context, accountID int64, name string) (Account, error) {
	return s.store.UpdateAccount(ctx, accountID, AccountUpdate{Name: &name})
}

// ChangeAccountPlan moves the account onto planID and copies its limits.
func (s *Service) ChangeAccountPlan(ctx context.Context, accountID, planID int64) (Account, error) {
	plan, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return Account{}, err
	}
	return s.store.UpdateAccount(ctx, accountID, AccountUpdate{Plan: &plan})
}

func (s *Service) RotateJoinPassword(ctx context.Context, accountID int64) (Account, error) {
	var lastErr error
	for range joinPasswordAttempts {
		pw, err := GenerateJoinPassword()
		if err != nil {
			return Account{}, err
		}
		acc, err := s.store.UpdateAccount(ctx, accountID, AccountUpdate{JoinPassword: &pw})
		if !errors.Is(err, ErrJoinPasswordTaken) {
			return acc, err
		}
		lastErr = err
	}
	return Account{}, lastErr
}
