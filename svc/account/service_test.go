package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notesaas/svc/account"
)

func TestService_GetAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "owner")
	acc := f.accountOn(t, "Team Plan", f.now.AddDate(0, 1, 0))
	f.member(t, owner.ID, acc.ID, account.AccessOwner)

	t.Run("by id", func(t *testing.T) {
		got, err := f.svc.GetAccountByID(ctx, acc.ID)
		require.NoError(t, err)
		assert.Equal(t, acc.ID, got.ID)
		require.Len(t, got.Members, 1)
		assert.Equal(t, owner.Email, got.Members[0].User.Email)
	})

	t.Run("by join password", func(t *testing.T) {
		got, err := f.svc.GetAccountByJoinPassword(ctx, acc.JoinPassword)
		require.NoError(t, err)
		assert.Equal(t, acc.ID, got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := f.svc.GetAccountByID(ctx, 9999)
		assert.ErrorIs(t, err, account.ErrAccountNotFound)
		_, err = f.svc.GetAccountByJoinPassword(ctx, "nope")
		assert.ErrorIs(t, err, account.ErrAccountNotFound)
		_, err = f.svc.GetAccountMembers(ctx, 9999)
		assert.ErrorIs(t, err, account.ErrAccountNotFound)
	})

	t.Run("members only from the requested account", func(t *testing.T) {
		other := f.accountOn(t, "Team Plan", f.now)
		f.member(t, f.user(t, "stranger").ID, other.ID, account.AccessOwner)

		members, err := f.svc.GetAccountMembers(ctx, acc.ID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, owner.ID, members[0].UserID)
	})
}

func TestService_ChangeAccountName(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	acc := f.accountOn(t, "Free Trial", f.now)

	got, err := f.svc.ChangeAccountName(context.Background(), acc.ID, "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	_, err = f.svc.ChangeAccountName(context.Background(), 9999, "x")
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestService_ChangeAccountPlan(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	acc := f.accountOn(t, "Free Trial", f.now)
	team := f.plans["Team Plan"]

	got, err := f.svc.ChangeAccountPlan(context.Background(), acc.ID, team.ID)
	require.NoError(t, err)
	assert.Equal(t, team.ID, got.PlanID)
	assert.Equal(t, team.Name, got.PlanName)
	assert.Equal(t, team.Features, got.Features)
	assert.Equal(t, team.MaxNotes, got.MaxNotes)
	assert.Equal(t, team.MaxMembers, got.MaxMembers)
	assert.Equal(t, team.AIGenMaxPM, got.AIGenMaxPM)

	_, err = f.svc.ChangeAccountPlan(context.Background(), acc.ID, 9999)
	assert.ErrorIs(t, err, account.ErrPlanNotFound)
}

func TestService_RotateJoinPassword(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	acc := f.accountOn(t, "Free Trial", f.now)

	got, err := f.svc.RotateJoinPassword(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Len(t, got.JoinPassword, 10)
	assert.NotEqual(t, acc.JoinPassword, got.JoinPassword)

	_, err = f.svc.GetAccountByJoinPassword(context.Background(), acc.JoinPassword)
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestService_UpdateStripeSubscriptionDetails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	periodEnds := time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC)

	t.Run("same plan resets usage only", func(t *testing.T) {
		f := newFixture(t)
		acc := f.accountOn(t, "Individual Plan", f.now)
		_, err := f.svc.UpdateAccountStripeCustomerID(ctx, acc.ID, "cus_1")
		require.NoError(t, err)
		_, err = f.store.IncrementAIGenCount(ctx, acc.ID)
		require.NoError(t, err)

		got, err := f.svc.UpdateStripeSubscriptionDetails(ctx, "cus_1", "sub_1", periodEnds, "prod_individual")
		require.NoError(t, err)
		assert.Equal(t, "sub_1", got.StripeSubscriptionID)
		assert.True(t, periodEnds.Equal(got.CurrentPeriodEnds))
		assert.Zero(t, got.AIGenCount)
		assert.Equal(t, acc.PlanID, got.PlanID)
	})

	t.Run("different plan copies limits", func(t *testing.T) {
		f := newFixture(t)
		acc := f.accountOn(t, "Free Trial", f.now)
		_, err := f.svc.UpdateAccountStripeCustomerID(ctx, acc.ID, "cus_2")
		require.NoError(t, err)

		got, err := f.svc.UpdateStripeSubscriptionDetails(ctx, "cus_2", "sub_2", periodEnds, "prod_team")
		require.NoError(t, err)
		team := f.plans["Team Plan"]
		assert.Equal(t, team.ID, got.PlanID)
		assert.Equal(t, "Team Plan", got.PlanName)
		assert.Equal(t, 10, got.MaxMembers)
		assert.Equal(t, 500, got.AIGenMaxPM)
		assert.Equal(t, 200, got.MaxNotes)
	})

	t.Run("unknown customer", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.UpdateStripeSubscriptionDetails(ctx, "cus_missing", "sub", periodEnds, "prod_team")
		assert.ErrorIs(t, err, account.ErrAccountNotFound)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newFixture(t)
		acc := f.accountOn(t, "Free Trial", f.now)
		_, err := f.svc.UpdateAccountStripeCustomerID(ctx, acc.ID, "cus_3")
		require.NoError(t, err)
		_, err = f.svc.UpdateStripeSubscriptionDetails(ctx, "cus_3", "sub", periodEnds, "prod_unknown")
		assert.ErrorIs(t, err, account.ErrPlanNotFound)
	})
}
