package memstore

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/dmitrymomot/notesaas/svc/account"
)

func (s *Store) GetAccount(_ context.Context, id int64) (account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.t.accounts[id]
	if !ok {
		return account.Account{}, account.ErrAccountNotFound
	}
	return a, nil
}

func (s *Store) findAccount(match func(account.Account) bool) (account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.t.accounts {
		if match(a) {
			return a, nil
		}
	}
	return account.Account{}, account.ErrAccountNotFound
}

func (s *Store) GetAccountByJoinPassword(_ context.Context, password string) (account.Account, error) {
	return s.findAccount(func(a account.Account) bool { return a.JoinPassword == password })
}

func (s *Store) GetAccountByStripeCustomerID(_ context.Context, customerID string) (account.Account, error) {
	if customerID == "" {
		return account.Account{}, account.ErrAccountNotFound
	}
	return s.findAccount(func(a account.Account) bool { return a.StripeCustomerID == customerID })
}

// joinPasswordTaken must be called with mu held.
func (s *Store) joinPasswordTaken(password string, exceptID int64) bool {
	for id, a := range s.t.accounts {
		if id != exceptID && a.JoinPassword == password {
			return true
		}
	}
	return false
}

func (s *Store) CreateAccount(ctx context.Context, a account.Account) (account.Account, error) {
	defer s.lock(ctx)()
	if _, ok := s.t.plans[a.PlanID]; !ok {
		return account.Account{}, account.ErrPlanNotFound
	}
	if s.joinPasswordTaken(a.JoinPassword, 0) {
		return account.Account{}, account.ErrJoinPasswordTaken
	}
	a.ID = s.nextID()
	set(ctx, s.t.accounts, a.ID, a)
	return a, nil
}

func (s *Store) UpdateAccount(ctx context.Context, id int64, upd account.AccountUpdate) (account.Account, error) {
	defer s.lock(ctx)()
	a, ok := s.t.accounts[id]
	if !ok {
		return account.Account{}, account.ErrAccountNotFound
	}
	if upd.JoinPassword != nil && s.joinPasswordTaken(*upd.JoinPassword, id) {
		return account.Account{}, account.ErrJoinPasswordTaken
	}
	upd.Apply(&a)
	set(ctx, s.t.accounts, id, a)
	return a, nil
}

func (s *Store) RolloverPeriod(ctx context.Context, id int64, from, to time.Time) (account.Account, error) {
	defer s.lock(ctx)()
	a, ok := s.t.accounts[id]
	if !ok {
		return account.Account{}, account.ErrAccountNotFound
	}
	if !a.CurrentPeriodEnds.Equal(from) {
		return account.Account{}, account.ErrPeriodChanged
	}
	a.CurrentPeriodEnds = to
	a.AIGenCount = 0
	set(ctx, s.t.accounts, id, a)
	return a, nil
}

func (s *Store) IncrementAIGenCount(ctx context.Context, id int64) (account.Account, error) {
	defer s.lock(ctx)()
	a, ok := s.t.accounts[id]
	if !ok {
		return account.Account{}, account.ErrAccountNotFound
	}
	a.AIGenCount++
	set(ctx, s.t.accounts, id, a)
	return a, nil
}

func (s *Store) CountAccountNotes(_ context.Context, accountID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, note := range s.t.notes {
		if note.BelongsTo(accountID) {
			n++
		}
	}
	return n, nil
}

func (s *Store) GetPlan(_ context.Context, id int64) (account.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.t.plans[id]
	if !ok {
		return account.Plan{}, account.ErrPlanNotFound
	}
	return p, nil
}

func (s *Store) findPlan(match func(account.Plan) bool) (account.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.t.plans {
		if match(p) {
			return p, nil
		}
	}
	return account.Plan{}, account.ErrPlanNotFound
}

func (s *Store) GetPlanByName(_ context.Context, name string) (account.Plan, error) {
	return s.findPlan(func(p account.Plan) bool { return p.Name == name })
}

func (s *Store) GetPlanByStripeProductID(_ context.Context, productID string) (account.Plan, error) {
	if productID == "" {
		return account.Plan{}, account.ErrPlanNotFound
	}
	return s.findPlan(func(p account.Plan) bool { return p.StripeProductID == productID })
}

// UpsertPlan inserts p or, when a plan with the same name exists, replaces
// its limits.
func (s *Store) UpsertPlan(ctx context.Context, p account.Plan) (account.Plan, error) {
	defer s.lock(ctx)()
	for id, existing := range s.t.plans {
		if existing.Name == p.Name {
			p.ID = id
			set(ctx, s.t.plans, id, p)
			return p, nil
		}
	}
	p.ID = s.nextID()
	set(ctx, s.t.plans, p.ID, p)
	return p, nil
}

func (s *Store) ListPlans(_ context.Context) ([]account.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]account.Plan, 0, len(s.t.plans))
	for _, p := range s.t.plans {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b account.Plan) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}
