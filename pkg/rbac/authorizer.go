// Package rbac resolves role permissions, including inherited ones, and
// answers permission checks against them.
//
// Permissions are dotted strings such as "notes.write". A permission ending
// in ".*" grants everything under its prefix and "*" grants everything.
package rbac

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// MaxInheritanceDepth bounds how deep Inherits chains may go.
const MaxInheritanceDepth = 10

// Role is a named set of permissions. Inherited roles contribute all of their
// own permissions, transitively.
type Role struct {
	Permissions []string
	Inherits    []string
}

type RoleSource interface {
	Load(ctx context.Context) (map[string]Role, error)
}

// Authorizer answers permission checks. It is immutable after construction
// and safe for concurrent use.
type Authorizer struct {
	perms map[string][]string
	order []string
}

// NewAuthorizer loads roles from source and flattens inheritance up front.
func NewAuthorizer(ctx context.Context, source RoleSource) (*Authorizer, error) {
	roles, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}

	depths := make(map[string]int, len(roles))
	for name := range roles {
		if _, err := depthOf(name, roles, depths, nil); err != nil {
			return nil, err
		}
	}

	a := &Authorizer{perms: make(map[string][]string, len(roles))}
	for name := range roles {
		a.perms[name] = flatten(name, roles, make(map[string]bool))
		a.order = append(a.order, name)
	}
	slices.SortFunc(a.order, func(x, y string) int {
		if d := depths[x] - depths[y]; d != 0 {
			return d
		}
		return strings.Compare(x, y)
	})
	return a, nil
}

// Can returns nil when role holds permission, directly or through inheritance.
func (a *Authorizer) Can(role, permission string) error {
	perms, ok := a.perms[role]
	if !ok {
		return ErrInvalidRole
	}
	if !slices.ContainsFunc(perms, func(p string) bool { return matches(p, permission) }) {
		return ErrInsufficientPermissions
	}
	return nil
}

// CanAll requires every permission. An empty list is allowed.
func (a *Authorizer) CanAll(role string, permissions ...string) error {
	for _, p := range permissions {
		if err := a.Can(role, p); err != nil {
			return err
		}
	}
	return nil
}

// CanFromContext checks the role stored with SetRoleToContext.
func (a *Authorizer) CanFromContext(ctx context.Context, permission string) error {
	role, ok := GetRoleFromContext(ctx)
	if !ok {
		return errors.Join(ErrRoleNotInContext, ErrInsufficientPermissions)
	}
	return a.Can(role, permission)
}

// VerifyRole reports ErrInvalidRole for unknown role names.
func (a *Authorizer) VerifyRole(role string) error {
	if _, ok := a.perms[role]; !ok {
		return ErrInvalidRole
	}
	return nil
}

// Roles lists role names, base roles first.
func (a *Authorizer) Roles() []string {
	return slices.Clone(a.order)
}

func matches(granted, wanted string) bool {
	if wanted == "" {
		return false
	}
	if granted == "*" || granted == wanted {
		return true
	}
	prefix, ok := strings.CutSuffix(granted, ".*")
	return ok && strings.HasPrefix(wanted, prefix+".")
}

func flatten(name string, roles map[string]Role, seen map[string]bool) []string {
	if seen[name] {
		return nil
	}
	seen[name] = true
	r, ok := roles[name]
	if !ok {
		return nil
	}
	out := slices.Clone(r.Permissions)
	for _, parent := range r.Inherits {
		out = append(out, flatten(parent, roles, seen)...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// depthOf computes the inheritance depth of name and rejects cycles and
// chains longer than MaxInheritanceDepth.
func depthOf(name string, roles map[string]Role, memo map[string]int, path []string) (int, error) {
	if d, ok := memo[name]; ok {
		return d, nil
	}
	if slices.Contains(path, name) {
		return 0, errors.Join(ErrCircularInheritance,
			fmt.Errorf("circular inheritance: %s -> %s", strings.Join(path, " -> "), name))
	}
	r, ok := roles[name]
	if !ok {
		return 0, errors.Join(ErrInvalidRole, fmt.Errorf("unknown inherited role %q", name))
	}
	path = append(path, name)
	depth := 0
	for _, parent := range r.Inherits {
		d, err := depthOf(parent, roles, memo, path)
		if err != nil {
			return 0, err
		}
		depth = max(depth, d+1)
	}
	if depth > MaxInheritanceDepth {
		return 0, errors.Join(ErrCircularInheritance,
			fmt.Errorf("inheritance depth of %q exceeds %d", name, MaxInheritanceDepth))
	}
	memo[name] = depth
	return depth, nil
}
