package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notesaas/internal/memstore"
	"github.com/dmitrymomot/notesaas/svc/account"
)

type fixture struct {
	store *memstore.Store
	svc   *account.Service
	now   time.Time
	plans map[string]account.Plan
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: memstore.New(),
		now:   time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC),
		plans: map[string]account.Plan{},
	}
	plans, err := account.SeedPlans(context.Background(), f.store, account.DefaultPlans("", account.PlanProducts{
		IndividualProductID: "prod_individual",
		TeamProductID:       "prod_team",
	}))
	require.NoError(t, err)
	for _, p := range plans {
		f.plans[p.Name] = p
	}
	f.svc = account.NewService(f.store, account.Config{}, account.WithClock(func() time.Time { return f.now }))
	return f
}

func (f *fixture) user(t *testing.T, name string) account.User {
	t.Helper()
	u, err := f.store.CreateUser(context.Background(), account.User{
		AuthSubject: "sub-" + name,
		Email:       name + "@example.com",
		DisplayName: name,
	})
	require.NoError(t, err)
	return u
}

// accountOn creates an account on the named plan whose period ends at ends.
func (f *fixture) accountOn(t *testing.T, planName string, ends time.Time) account.Account {
	t.Helper()
	pw, err := account.GenerateJoinPassword()
	require.NoError(t, err)
	a := account.Account{Name: "acme", CurrentPeriodEnds: ends, JoinPassword: pw}
	a.ApplyPlan(f.plans[planName])
	a, err = f.store.CreateAccount(context.Background(), a)
	require.NoError(t, err)
	return a
}

func (f *fixture) member(t *testing.T, userID, accountID int64, access account.Access) account.Membership {
	t.Helper()
	m, err := f.store.CreateMembership(context.Background(), account.Membership{
		UserID:    userID,
		AccountID: accountID,
		Access:    access,
	})
	require.NoError(t, err)
	return m
}
