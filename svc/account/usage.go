package account

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/notesaas/pkg/logger"
	"github.com/dmitrymomot/notesaas/pkg/metrics"
)

// GetAccountWithPeriodRollover returns the account, first starting a new
// usage period when an initial-plan account's period has ended. Paid plans
// are moved forward by subscription updates instead.
func (s *Service) GetAccountWithPeriodRollover(ctx context.Context, accountID int64) (Account, error) {
	acc, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return Account{}, err
	}
	now := s.now()
	if acc.PlanName != s.cfg.InitialPlanName || acc.CurrentPeriodEnds.After(now) {
		return acc, nil
	}

	next := nextPeriodEnd(acc.CurrentPeriodEnds, now)
	updated, err := s.store.RolloverPeriod(ctx, acc.ID, acc.CurrentPeriodEnds, next)
	if errors.Is(err, ErrPeriodChanged) {
		// Another request rolled the period over first.
		return s.store.GetAccount(ctx, accountID)
	}
	if err != nil {
		return Account{}, err
	}

	metrics.UsageRolloversTotal.Inc()
	s.log.InfoContext(ctx, "usage period rolled over",
		logger.AccountID(acc.ID),
		slog.Time("period_ends", next))
	return updated, nil
}

// CheckAIGenCount fails with ErrAIGenLimitReached when the current period's
// generation allowance is used up.
func (s *Service) CheckAIGenCount(ctx context.Context, accountID int64) (Account, error) {
	acc, err := s.GetAccountWithPeriodRollover(ctx, accountID)
	if err != nil {
		return Account{}, err
	}
	if acc.AIGenCount >= acc.AIGenMaxPM {
		return acc, ErrAIGenLimitReached
	}
	return acc, nil
}

// IncrementAIGenCount counts one generation against acc. Call it only after
// the generation succeeded.
func (s *Service) IncrementAIGenCount(ctx context.Context, acc Account) (Account, error) {
	return s.store.IncrementAIGenCount(ctx, acc.ID)
}

// CheckNoteLimit fails with ErrNoteLimitReached when the account already
// holds max_notes notes.
func (s *Service) CheckNoteLimit(ctx context.Context, accountID int64) (Account, error) {
	acc, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return Account{}, err
	}
	n, err := s.store.CountAccountNotes(ctx, accountID)
	if err != nil {
		return Account{}, err
	}
	if n >= acc.MaxNotes {
		return acc, ErrNoteLimitReached
	}
	return acc, nil
}
