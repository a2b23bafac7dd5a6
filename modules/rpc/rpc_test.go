package rpc_test

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notesaas/pkg/llm"
	"github.com/dmitrymomot/notesaas/svc/account"
	"github.com/dmitrymomot/notesaas/svc/auth"
	"github.com/dmitrymomot/notesaas/svc/notes"
)

func TestAnonymousCalls(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	res := e.call(t, call{}, "account.getDBUser", nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.JSONEq(t, "null", string(res.Data["dbUser"]))

	res = e.call(t, call{}, "account.getActiveAccountId", nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.JSONEq(t, "null", string(res.Data["activeAccountId"]))

	res = e.call(t, call{}, "account.changeActiveAccount", map[string]any{"account_id": 1})
	require.Equal(t, http.StatusUnauthorized, res.code)
	assert.Equal(t, "unauthorized", res.Error.Code)

	res = e.call(t, call{}, "notes.getForActiveAccount", nil)
	assert.Equal(t, http.StatusUnauthorized, res.code)

	res = e.call(t, call{}, "auth.deleteUser", nil)
	assert.Equal(t, http.StatusUnauthorized, res.code)
}

func TestGetDBUserCreatesPersonalAccount(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	c, u := e.signIn(t, "alice")
	assert.Equal(t, "alice", u.AuthSubject)
	require.Len(t, u.Memberships, 1)
	assert.Equal(t, account.AccessOwner, u.Memberships[0].Access)
	assert.Equal(t, "User alice", u.Memberships[0].Account.Name)
	assert.Equal(t, "Free Trial", u.Memberships[0].Account.PlanName)

	res := e.call(t, c, "account.getActiveAccountId", nil)
	require.Equal(t, http.StatusOK, res.code)
	var active int64
	res.decode(t, "activeAccountId", &active)
	assert.Equal(t, u.Memberships[0].AccountID, active)
}

func TestNotesLifecycle(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	c, _ := e.signIn(t, "alice")

	res := e.call(t, c, "notes.createNote", map[string]any{"note_text": "first"})
	require.Equal(t, http.StatusOK, res.code)
	var created notes.Note
	res.decode(t, "note", &created)
	assert.Equal(t, "first", created.NoteText)

	res = e.call(t, c, "notes.getForActiveAccount", nil)
	require.Equal(t, http.StatusOK, res.code)
	var list []notes.Note
	res.decode(t, "notes", &list)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	res = e.call(t, c, "notes.updateNote", map[string]any{"note_id": created.ID, "note_text": "second"})
	require.Equal(t, http.StatusOK, res.code)
	var updated notes.Note
	res.decode(t, "note", &updated)
	assert.Equal(t, "second", updated.NoteText)

	res = e.call(t, c, "notes.getById", map[string]any{"note_id": created.ID})
	require.Equal(t, http.StatusOK, res.code)

	res = e.call(t, c, "notes.deleteNote", map[string]any{"note_id": created.ID})
	require.Equal(t, http.StatusOK, res.code)

	res = e.call(t, c, "notes.getById", map[string]any{"note_id": created.ID})
	require.Equal(t, http.StatusNotFound, res.code)
	assert.Equal(t, "not_found", res.Error.Code)
}

func TestNoteTextKeptAsSent(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	c, _ := e.signIn(t, "alice")

	text := "  - milk\n  - eggs\n\n"
	res := e.call(t, c, "notes.createNote", map[string]any{"note_text": text + "\u0000"})
	require.Equal(t, http.StatusOK, res.code)
	var n notes.Note
	res.decode(t, "note", &n)
	assert.Equal(t, text, n.NoteText)
}

func TestNotesAreScopedToActiveAccount(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	alice, _ := e.signIn(t, "alice")
	bob, _ := e.signIn(t, "bob")

	res := e.call(t, alice, "notes.createNote", map[string]any{"note_text": "private"})
	require.Equal(t, http.StatusOK, res.code)
	var n notes.Note
	res.decode(t, "note", &n)

	res = e.call(t, bob, "notes.getById", map[string]any{"note_id": n.ID})
	assert.Equal(t, http.StatusNotFound, res.code)
	res = e.call(t, bob, "notes.deleteNote", map[string]any{"note_id": n.ID})
	assert.Equal(t, http.StatusNotFound, res.code)
}

func TestValidationAndBinding(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	c, _ := e.signIn(t, "alice")

	res := e.call(t, c, "notes.createNote", map[string]any{"note_text": "   "})
	require.Equal(t, http.StatusUnprocessableEntity, res.code)
	assert.Equal(t, "validation_error", res.Error.Code)
	assert.Contains(t, res.Error.Details, "note_text")

	res = e.call(t, c, "notes.createNote", map[string]any{"text": "unknown field"})
	require.Equal(t, http.StatusBadRequest, res.code)
	assert.Equal(t, "bad_request", res.Error.Code)

	res = e.call(t, c, "account.changeUserAccessWithinAccount", map[string]any{"user_id": 1, "access": "SUPERUSER"})
	require.Equal(t, http.StatusUnprocessableEntity, res.code)
	assert.Contains(t, res.Error.Details, "access")
}

func TestNoteLimit(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	c, _ := e.signIn(t, "alice")

	for i := range e.plans["Free Trial"].MaxNotes {
		res := e.call(t, c, "notes.createNote", map[string]any{"note_text": "note " + strconv.Itoa(i)})
		require.Equal(t, http.StatusOK, res.code)
	}
	res := e.call(t, c, "notes.createNote", map[string]any{"note_text": "one too many"})
	require.Equal(t, http.StatusPaymentRequired, res.code)
	assert.Equal(t, "limit_reached", res.Error.Code)
}

func TestGenerateAINote(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	c, u := e.signIn(t, "alice")

	var prompts []string
	e.generate = func(_ context.Context, prompt string, _ llm.Options) (string, error) {
		prompts = append(prompts, prompt)
		return "  A generated note.  ", nil
	}

	limit := e.plans["Free Trial"].AIGenMaxPM
	for range limit {
		res := e.call(t, c, "notes.generateAINoteFromPrompt", map[string]any{"user_prompt": "cats"})
		require.Equal(t, http.StatusOK, res.code)
		var text string
		res.decode(t, "noteText", &text)
		assert.Equal(t, "A generated note.", text)
	}
	require.NotEmpty(t, prompts)
	assert.Contains(t, prompts[0], "about cats")

	res := e.call(t, c, "notes.generateAINoteFromPrompt", map[string]any{"user_prompt": "cats"})
	require.Equal(t, http.StatusPaymentRequired, res.code)
	assert.Equal(t, "limit_reached", res.Error.Code)

	acc, err := e.accounts.GetAccountWithPeriodRollover(context.Background(), u.Memberships[0].AccountID)
	require.NoError(t, err)
	assert.Equal(t, limit, acc.AIGenCount)
}

func TestGenerateAINoteProviderFailure(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	c, u := e.signIn(t, "alice")
	e.generate = func(context.Context, string, llm.Options) (string, error) {
		return "", errors.New("provider down")
	}

	res := e.call(t, c, "notes.generateAINoteFromPrompt", map[string]any{"user_prompt": "cats"})
	require.Equal(t, http.StatusBadGateway, res.code)

	acc, err := e.accounts.GetAccountWithPeriodRollover(context.Background(), u.Memberships[0].AccountID)
	require.NoError(t, err)
	assert.Zero(t, acc.AIGenCount)
}

func TestTeamMembershipFlow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEnv(t)

	owner, ownerUser := e.signIn(t, "owner")
	teamID := ownerUser.Memberships[0].AccountID
	_, err := e.accounts.ChangeAccountPlan(ctx, teamID, e.plans["Team Plan"].ID)
	require.NoError(t, err)

	joiner, joinerUser := e.signIn(t, "joiner")

	// The joiner looks the team up by its join password and asks to join.
	team, err := e.accounts.GetAccountByID(ctx, teamID)
	require.NoError(t, err)
	res := e.call(t, joiner, "account.getAccountByJoinPassword", map[string]any{"join_password": team.JoinPassword})
	require.Equal(t, http.StatusOK, res.code)

	res = e.call(t, joiner, "account.joinUserToAccountPending", map[string]any{"account_id": teamID, "user_id": joinerUser.ID})
	require.Equal(t, http.StatusOK, res.code)
	var pending account.MembershipWithAccount
	res.decode(t, "membership", &pending)
	assert.True(t, pending.Pending)
	assert.Equal(t, account.AccessReadOnly, pending.Access)

	res = e.call(t, joiner, "account.changeActiveAccount", map[string]any{"account_id": teamID})
	require.Equal(t, http.StatusBadRequest, res.code)

	res = e.call(t, owner, "account.acceptPendingMembership", map[string]any{"membership_id": pending.ID})
	require.Equal(t, http.StatusOK, res.code)

	res = e.call(t, joiner, "account.changeActiveAccount", map[string]any{"account_id": teamID})
	require.Equal(t, http.StatusOK, res.code)
	var cookie *http.Cookie
	for _, ck := range (&http.Response{Header: res.header}).Cookies() {
		if ck.Name == auth.ActiveAccountCookie {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, strconv.FormatInt(teamID, 10), cookie.Value)
	joiner.cookies = []*http.Cookie{cookie}

	// READ_ONLY members can read but not write.
	res = e.call(t, joiner, "notes.getForActiveAccount", nil)
	require.Equal(t, http.StatusOK, res.code)
	res = e.call(t, joiner, "notes.createNote", map[string]any{"note_text": "hi"})
	require.Equal(t, http.StatusForbidden, res.code)
	res = e.call(t, joiner, "account.claimOwnershipOfAccount", nil)
	require.Equal(t, http.StatusForbidden, res.code)

	res = e.call(t, owner, "account.changeUserAccessWithinAccount", map[string]any{"user_id": joinerUser.ID, "access": "OWNER"})
	require.Equal(t, http.StatusBadRequest, res.code)
	res = e.call(t, owner, "account.changeUserAccessWithinAccount", map[string]any{"user_id": joinerUser.ID, "access": "ADMIN"})
	require.Equal(t, http.StatusOK, res.code)

	res = e.call(t, joiner, "account.claimOwnershipOfAccount", nil)
	require.Equal(t, http.StatusOK, res.code)
	var members []account.MembershipWithUser
	res.decode(t, "memberships", &members)
	access := map[int64]account.Access{}
	for _, m := range members {
		access[m.UserID] = m.Access
	}
	assert.Equal(t, account.AccessOwner, access[joinerUser.ID])
	assert.Equal(t, account.AccessAdmin, access[ownerUser.ID])

	// The former owner, now ADMIN, can no longer delete memberships.
	res = e.call(t, owner, "account.deleteMembership", map[string]any{"membership_id": pending.ID})
	require.Equal(t, http.StatusForbidden, res.code)

	res = e.call(t, owner, "account.getAccountMembers", nil)
	require.Equal(t, http.StatusOK, res.code)
}

func TestJoinRespectsMemberLimit(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	_, ownerUser := e.signIn(t, "owner")
	_, joinerUser := e.signIn(t, "joiner")

	res := e.call(t, call{}, "account.joinUserToAccountPending", map[string]any{
		"account_id": ownerUser.Memberships[0].AccountID,
		"user_id":    joinerUser.ID,
	})
	require.Equal(t, http.StatusBadRequest, res.code)
	assert.Equal(t, account.ErrTooManyMembers.Error(), res.Error.Message)
}

func TestChangeAccountNameAndRotatePassword(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	c, u := e.signIn(t, "alice")
	before := u.Memberships[0].Account.JoinPassword

	res := e.call(t, c, "account.changeAccountName", map[string]any{"new_name": "Renamed"})
	require.Equal(t, http.StatusOK, res.code)
	var acc account.Account
	res.decode(t, "account", &acc)
	assert.Equal(t, "Renamed", acc.Name)

	res = e.call(t, c, "account.changeAccountName", map[string]any{"new_name": "  Acme\nTeam  "})
	require.Equal(t, http.StatusOK, res.code)
	res.decode(t, "account", &acc)
	assert.Equal(t, "Acme Team", acc.Name)

	res = e.call(t, c, "account.changeAccountName", map[string]any{"new_name": " \n "})
	assert.Equal(t, http.StatusUnprocessableEntity, res.code)

	res = e.call(t, c, "account.rotateJoinPassword", nil)
	require.Equal(t, http.StatusOK, res.code)
	res.decode(t, "account", &acc)
	assert.Len(t, acc.JoinPassword, 10)
	assert.NotEqual(t, before, acc.JoinPassword)
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	c, u := e.signIn(t, "alice")

	res := e.call(t, c, "auth.deleteUser", nil)
	require.Equal(t, http.StatusNoContent, res.code)

	_, err := e.auth.GetUserByID(context.Background(), u.ID)
	assert.ErrorIs(t, err, account.ErrUserNotFound)
}
