package rbac

import "context"

type roleCtxKey struct{}

// SetRoleToContext stores the caller's role for CanFromContext.
func SetRoleToContext(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleCtxKey{}, role)
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleCtxKey{}).(string)
	return role, ok && role != ""
}
