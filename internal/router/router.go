// Package router builds the Echo instance and registers the API routes.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/authkit/internal/handler"
	"github.com/iliyamo/authkit/internal/logging"
	"github.com/iliyamo/authkit/internal/middleware"
	"github.com/iliyamo/authkit/internal/response"
)

// Options configures the server-wide middleware stack.
type Options struct {
	ClientURL string // allowed CORS origin
	BodyLimit string // e.g. "1M"
}

// New builds an Echo instance with the envelope error handler and the
// shared middleware (recover, request id, request log, CORS, body limit).
func New(opts Options, log logging.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = response.ErrorHandler(log)

	if opts.BodyLimit == "" {
		opts.BodyLimit = "1M"
	}

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLog(log))
	if opts.ClientURL != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{opts.ClientURL},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAccept},
			AllowCredentials: true,
		}))
	}
	e.Use(echomw.BodyLimit(opts.BodyLimit))
	return e
}

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Health)
	e.GET("/api/health", handler.Health)
}

// RegisterAuth registers the /api/auth routes.  limit rate-limits the
// credential endpoints (register, login) and may be nil; logout is never
// limited so it can always clear the cookie.  requireAuth guards /me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limit, requireAuth echo.MiddlewareFunc) {
	var limited []echo.MiddlewareFunc
	if limit != nil {
		limited = append(limited, limit)
	}
	g := e.Group("/api/auth")
	g.POST("/register", a.Register, limited...)
	g.POST("/login", a.Login, limited...)
	g.GET("/logout", a.Logout)
	g.GET("/me", a.Me, requireAuth)
}
