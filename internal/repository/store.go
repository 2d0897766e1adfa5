package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/authkit/internal/model"
)

// UserStore is the persistence contract for user records.  The two email
// lookups differ only in whether the password hash is loaded; callers must
// ask for the secret explicitly.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByEmailWithSecret(ctx context.Context, email string) (model.UserSecret, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	Create(ctx context.Context, u model.NewUser) (model.User, error)
}

// NormalizeEmail trims surrounding space and lowercases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
