package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/authkit/internal/config"
	"github.com/iliyamo/authkit/internal/cookie"
	"github.com/iliyamo/authkit/internal/logging"
	"github.com/iliyamo/authkit/internal/middleware"
	"github.com/iliyamo/authkit/internal/model"
	"github.com/iliyamo/authkit/internal/queue"
	"github.com/iliyamo/authkit/internal/repository"
	"github.com/iliyamo/authkit/internal/response"
	"github.com/iliyamo/authkit/internal/token"
	"github.com/iliyamo/authkit/internal/utils"
)

// Response messages.
const (
	MsgRegisterFieldsRequired = "Name, email and password are required"
	MsgLoginFieldsRequired    = "Email and password are required"
	MsgUserExists             = "User already exists"
	MsgUserNotFound           = "User not found"
	MsgInvalidPassword        = "Invalid password"
	MsgRegistered             = "User registered successfully"
	MsgLoggedIn               = "Login successful"
	MsgLoggedOut              = "Logout successful"
	MsgAuthenticated          = "Authenticated user"
)

// storeTimeout bounds every store round trip made by a handler.
const storeTimeout = 5 * time.Second

// publishTimeout bounds one background event publish.
const publishTimeout = 10 * time.Second

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Users      repository.UserStore
	Tokens     *token.Service
	Cookie     cookie.Policy
	Events     queue.Publisher
	Log        logging.Logger
	BcryptCost int

	pending sync.WaitGroup // in-flight event publishes
}

func NewAuthHandler(cfg config.Config, users repository.UserStore, tokens *token.Service, events queue.Publisher, log logging.Logger) *AuthHandler {
	if events == nil {
		events = queue.NopPublisher{}
	}
	return &AuthHandler{
		Users:      users,
		Tokens:     tokens,
		Cookie:     cookie.NewPolicy(cfg.IsProduction(), tokens.TTL()),
		Events:     events,
		Log:        log,
		BcryptCost: cfg.BcryptCost,
	}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userData is the `data` member of register, login and me responses.  It
// only ever holds the public projection.
type userData struct {
	User model.User `json:"user"`
}

// Register creates a user, starts a session and returns the user.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, MsgRegisterFieldsRequired)
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = repository.NormalizeEmail(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return response.Fail(c, http.StatusBadRequest, MsgRegisterFieldsRequired)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	_, err := h.Users.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return response.Fail(c, http.StatusConflict, MsgUserExists)
	case !errors.Is(err, repository.ErrNotFound):
		return h.internal(c, "register: lookup email", err)
	}

	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return h.internal(c, "register: hash password", err)
	}

	u, err := h.Users.Create(ctx, model.NewUser{Name: req.Name, Email: req.Email, PasswordHash: hash})
	if err != nil {
		// the store's unique key settles a race the lookup above could not see
		if errors.Is(err, repository.ErrDuplicateKey) {
			return response.Fail(c, http.StatusConflict, MsgUserExists)
		}
		return h.internal(c, "register: create user", err)
	}

	if err := h.startSession(c, u.ID); err != nil {
		return h.internal(c, "register: issue token", err)
	}
	h.publish(c, queue.EventUserRegistered, u)

	return response.OK(c, http.StatusCreated, MsgRegistered, userData{User: u})
}

// Login verifies credentials, starts a session and returns the user.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, MsgLoginFieldsRequired)
	}
	req.Email = repository.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return response.Fail(c, http.StatusBadRequest, MsgLoginFieldsRequired)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	s, err := h.Users.FindByEmailWithSecret(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.Fail(c, http.StatusNotFound, MsgUserNotFound)
		}
		return h.internal(c, "login: lookup email", err)
	}
	if !utils.VerifyPassword(s.PasswordHash, req.Password) {
		return response.Fail(c, http.StatusUnauthorized, MsgInvalidPassword)
	}

	if err := h.startSession(c, s.ID); err != nil {
		return h.internal(c, "login: issue token", err)
	}
	h.publish(c, queue.EventUserLoggedIn, s.User)

	return response.OK(c, http.StatusOK, MsgLoggedIn, userData{User: s.User})
}

// Logout clears the auth cookie.  Tokens are not revoked server-side; one
// issued before logout stays valid until it expires.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.Cookie.Clear(c)
	return response.OK(c, http.StatusOK, MsgLoggedOut, nil)
}

// Me returns the user resolved by middleware.RequireAuth.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := middleware.UserFrom(c.Request().Context())
	if !ok {
		return response.Fail(c, http.StatusUnauthorized, middleware.MsgTokenNotFound)
	}
	return response.OK(c, http.StatusOK, MsgAuthenticated, userData{User: u})
}

func (h *AuthHandler) startSession(c echo.Context, userID string) error {
	tok, err := h.Tokens.Issue(userID)
	if err != nil {
		return err
	}
	h.Cookie.Set(c, tok.Value)
	return nil
}

// publish sends the event in the background so a slow broker never delays
// the response.  It is best effort: failures are logged only.
func (h *AuthHandler) publish(c echo.Context, typ string, u model.User) {
	ev := queue.AuthEvent{
		Type:       typ,
		UserID:     u.ID,
		Email:      u.Email,
		RequestID:  requestID(c),
		OccurredAt: time.Now().UTC(),
	}
	ctx := context.WithoutCancel(c.Request().Context())
	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		if err := h.Events.Publish(ctx, ev); err != nil {
			h.Log.Warn(ctx, "publish auth event", "type", typ, "user_id", ev.UserID, "err", err)
		}
	}()
}

// Wait blocks until every background event publish has finished.  Call it
// after the HTTP server has stopped accepting requests.
func (h *AuthHandler) Wait() { h.pending.Wait() }

// internal logs err with context and answers with the generic 500.
func (h *AuthHandler) internal(c echo.Context, op string, err error) error {
	h.Log.Error(c.Request().Context(), op, "request_id", requestID(c), "err", err)
	return response.Fail(c, http.StatusInternalServerError, response.MsgInternal)
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
