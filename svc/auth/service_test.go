package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notesaas/internal/memstore"
	"github.com/dmitrymomot/notesaas/svc/account"
	"github.com/dmitrymomot/notesaas/svc/auth"
)

var fixedNow = time.Date(2024, time.January, 31, 10, 0, 0, 0, time.UTC)

func newService(t *testing.T, seed bool) (*auth.Service, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	if seed {
		_, err := account.SeedPlans(context.Background(), store, account.DefaultPlans("", account.PlanProducts{}))
		require.NoError(t, err)
	}
	svc := auth.NewService(store, account.Config{}, auth.WithClock(func() time.Time { return fixedNow }))
	return svc, store
}

func TestService_CreateUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newService(t, true)

	u, err := svc.CreateUser(ctx, "sub-1", "Jane Doe", "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", u.AuthSubject)
	assert.Equal(t, "jane@example.com", u.Email)
	require.Len(t, u.Memberships, 1)

	m := u.Memberships[0]
	assert.Equal(t, account.AccessOwner, m.Access)
	assert.False(t, m.Pending)
	assert.Equal(t, "Jane Doe", m.Account.Name)
	assert.Equal(t, "Free Trial", m.Account.PlanName)
	assert.Equal(t, 7, m.Account.AIGenMaxPM)
	assert.Equal(t, 10, m.Account.MaxNotes)
	assert.Len(t, m.Account.JoinPassword, 10)
	// Jan 31 + 1 month is clamped to the end of February.
	assert.Equal(t, time.Date(2024, time.February, 29, 10, 0, 0, 0, time.UTC), m.Account.CurrentPeriodEnds)

	_, err = svc.CreateUser(ctx, "sub-1", "Jane", "jane@example.com")
	assert.ErrorIs(t, err, account.ErrUserExists)
}

func TestService_CreateUser_MissingPlanRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newService(t, false)

	_, err := svc.CreateUser(ctx, "sub-1", "Jane", "jane@example.com")
	assert.ErrorIs(t, err, account.ErrPlanNotFound)

	u, err := svc.GetFullUserBySubject(ctx, "sub-1")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestService_CreateUser_NameFallsBackToEmail(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t, true)

	u, err := svc.CreateUser(context.Background(), "sub-2", "", "anon@example.com")
	require.NoError(t, err)
	assert.Equal(t, "anon@example.com", u.Memberships[0].Account.Name)
}

func TestService_GetUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newService(t, true)

	created, err := svc.CreateUser(ctx, "sub-1", "Jane", "jane@example.com")
	require.NoError(t, err)

	bySubject, err := svc.GetFullUserBySubject(ctx, "sub-1")
	require.NoError(t, err)
	require.NotNil(t, bySubject)
	assert.Equal(t, created.ID, bySubject.ID)

	byID, err := svc.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, byID.Memberships, 1)

	missing, err := svc.GetFullUserBySubject(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = svc.GetUserByID(ctx, 9999)
	assert.ErrorIs(t, err, account.ErrUserNotFound)
}

func TestService_DeleteUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, store := newService(t, true)

	u, err := svc.CreateUser(ctx, "sub-1", "Jane", "jane@example.com")
	require.NoError(t, err)
	accountID := u.Memberships[0].AccountID

	require.NoError(t, svc.DeleteUser(ctx, u.ID))

	_, err = svc.GetUserByID(ctx, u.ID)
	assert.ErrorIs(t, err, account.ErrUserNotFound)

	// The account outlives its last member.
	_, err = store.GetAccount(ctx, accountID)
	assert.NoError(t, err)
	members, err := store.ListAccountMembers(ctx, accountID)
	require.NoError(t, err)
	assert.Empty(t, members)

	assert.ErrorIs(t, svc.DeleteUser(ctx, u.ID), account.ErrUserNotFound)
}

func TestService_DeleteUser_LogsOwnerlessAccounts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, store := newService(t, true)
	var buf bytes.Buffer
	svc := auth.NewService(store, account.Config{},
		auth.WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))))

	alice, err := svc.CreateUser(ctx, "sub-alice", "Alice", "alice@example.com")
	require.NoError(t, err)
	bob, err := svc.CreateUser(ctx, "sub-bob", "Bob", "bob@example.com")
	require.NoError(t, err)
	personal := alice.Memberships[0].AccountID
	shared := bob.Memberships[0].AccountID

	// Alice co-owns Bob's account, so only her personal account is orphaned.
	_, err = store.CreateMembership(ctx, account.Membership{UserID: alice.ID, AccountID: shared, Access: account.AccessOwner})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, alice.ID))

	var warning struct {
		Msg        string  `json:"msg"`
		UserID     int64   `json:"user_id"`
		AccountIDs []int64 `json:"account_ids"`
	}
	for line := range strings.Lines(buf.String()) {
		if strings.Contains(line, "without an owner") {
			require.NoError(t, json.Unmarshal([]byte(line), &warning))
		}
	}
	assert.Equal(t, alice.ID, warning.UserID)
	assert.Equal(t, []int64{personal}, warning.AccountIDs)

	buf.Reset()
	require.NoError(t, svc.DeleteUser(ctx, bob.ID))
	assert.Contains(t, buf.String(), "without an owner")
}
