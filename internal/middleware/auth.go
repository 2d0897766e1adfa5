// Package middleware provides request processing shared by the auth routes:
// cookie authentication, rate limiting and request logging.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/authkit/internal/cookie"
	"github.com/iliyamo/authkit/internal/logging"
	"github.com/iliyamo/authkit/internal/model"
	"github.com/iliyamo/authkit/internal/repository"
	"github.com/iliyamo/authkit/internal/response"
)

// Messages returned by RequireAuth.  All failures are 401.
const (
	MsgTokenNotFound = "Unauthorized: token not found"
	MsgInvalidToken  = "Invalid token"
	MsgUserNotFound  = "Unauthorized: user not found"
)

// TokenVerifier resolves a raw token to the user id it was issued for.
type TokenVerifier interface {
	Verify(raw string) (string, error)
}

// UserFinder loads a user by id.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (model.User, error)
}

// RequireAuth reads the auth cookie, verifies it, loads the user and stores
// it in the request context.  Each step exits early with 401 on failure.
// A store error other than "not found" is an infrastructure fault and is
// reported as 500.
func RequireAuth(p cookie.Policy, tokens TokenVerifier, users UserFinder, log logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := p.Read(c)
			if raw == "" {
				return response.Fail(c, http.StatusUnauthorized, MsgTokenNotFound)
			}

			uid, err := tokens.Verify(raw)
			if err != nil {
				return response.Fail(c, http.StatusUnauthorized, MsgInvalidToken)
			}

			ctx := c.Request().Context()
			u, err := users.FindByID(ctx, uid)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return response.Fail(c, http.StatusUnauthorized, MsgUserNotFound)
				}
				log.Error(ctx, "auth middleware: load user",
					"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
					"user_id", uid,
					"err", err)
				return response.Fail(c, http.StatusInternalServerError, response.MsgInternal)
			}

			c.SetRequest(c.Request().WithContext(WithUser(ctx, u)))
			return next(c)
		}
	}
}
