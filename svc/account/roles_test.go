package account_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notesaas/pkg/rbac"
	"github.com/dmitrymomot/notesaas/svc/account"
)

func TestRoles(t *testing.T) {
	t.Parallel()
	authz, err := rbac.NewAuthorizer(context.Background(), account.RoleSource())
	require.NoError(t, err)

	tests := []struct {
		perm    string
		minimum account.Access
	}{
		{account.PermAccountRead, account.AccessReadOnly},
		{account.PermNotesRead, account.AccessReadOnly},
		{account.PermNotesWrite, account.AccessReadWrite},
		{account.PermAIGenerate, account.AccessReadWrite},
		{account.PermNotesDelete, account.AccessAdmin},
		{account.PermMembersManage, account.AccessAdmin},
		{account.PermOwnershipClaim, account.AccessAdmin},
		{account.PermMembersDelete, account.AccessOwner},
		{account.PermBillingManage, account.AccessOwner},
	}
	for _, tt := range tests {
		for _, level := range account.Accesses() {
			err := authz.Can(level.String(), tt.perm)
			if level.AtLeast(tt.minimum) {
				assert.NoError(t, err, "%s should have %s", level, tt.perm)
			} else {
				assert.ErrorIs(t, err, rbac.ErrInsufficientPermissions, "%s should not have %s", level, tt.perm)
			}
		}
	}
}

func TestAccess_AtLeast(t *testing.T) {
	t.Parallel()
	assert.True(t, account.AccessOwner.AtLeast(account.AccessAdmin))
	assert.True(t, account.AccessReadWrite.AtLeast(account.AccessReadWrite))
	assert.False(t, account.AccessReadOnly.AtLeast(account.AccessReadWrite))
	assert.False(t, account.Access("ROOT").AtLeast(account.AccessReadOnly))
	assert.False(t, account.Access("").Valid())
}
