package middleware

// identity.go carries the authenticated user through the request context.
// RequireAuth stores the resolved model.User with WithUser; handlers read
// it back with UserFrom.  Nothing is kept in package-level state.

import (
	"context"

	"github.com/iliyamo/authkit/internal/model"
)

type ctxKey struct{}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u model.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom returns the authenticated user stored by RequireAuth.
func UserFrom(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(model.User)
	return u, ok
}
