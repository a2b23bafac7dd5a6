package account

import "github.com/dmitrymomot/notesaas/pkg/rbac"

// Permissions checked by the RPC layer against the caller's membership access.
const (
	PermAccountRead    = "account.read"
	PermNotesRead      = "notes.read"
	PermNotesWrite     = "notes.write"
	PermAIGenerate     = "ai.generate"
	PermNotesDelete    = "notes.delete"
	PermAccountManage  = "account.manage"
	PermMembersManage  = "members.manage"
	PermOwnershipClaim = "ownership.claim"
	PermMembersDelete  = "members.delete"
	PermBillingManage  = "billing.manage"
)

// Roles maps each access level to an rbac role. Every level inherits the one
// below it.
func Roles() map[string]rbac.Role {
	return map[string]rbac.Role{
		AccessReadOnly.String(): {
			Permissions: []string{PermAccountRead, PermNotesRead},
		},
		AccessReadWrite.String(): {
			Permissions: []string{PermNotesWrite, PermAIGenerate},
			Inherits:    []string{AccessReadOnly.String()},
		},
		AccessAdmin.String(): {
			Permissions: []string{PermNotesDelete, PermAccountManage, PermMembersManage, PermOwnershipClaim},
			Inherits:    []string{AccessReadWrite.String()},
		},
		AccessOwner.String(): {
			Permissions: []string{PermMembersDelete, PermBillingManage},
			Inherits:    []string{AccessAdmin.String()},
		},
	}
}

// RoleSource returns an rbac source serving Roles.
func RoleSource() rbac.RoleSource {
	return rbac.NewInMemRoleSource(Roles())
}
