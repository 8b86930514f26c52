package auth

import (
	"context"

	"github.com/Samamatip/dh-workflow/internal/domain/user"
)

// Principal is the authenticated caller, resolved from access token claims.
type Principal struct {
	UserID       string
	Email        string
	Role         user.Role
	DepartmentID string
}

func (p Principal) IsAdmin() bool {
	return p.Role == user.RoleAdmin
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || p.UserID == "" {
		return Principal{}, ErrNoPrincipal
	}
	return p, nil
}
