// Package cookie owns the attributes of the auth cookie so that setting,
// reading and clearing it always agree.
package cookie

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// DefaultName is the cookie that carries the auth token.
const DefaultName = "token"

// Policy is read-only after startup.
type Policy struct {
	Name   string
	Secure bool          // on in production
	MaxAge time.Duration // matches the token TTL
}

// NewPolicy returns the cookie policy for the given mode and token lifetime.
func NewPolicy(production bool, maxAge time.Duration) Policy {
	return Policy{Name: DefaultName, Secure: production, MaxAge: maxAge}
}

func (p Policy) base() *http.Cookie {
	return &http.Cookie{
		Name:     p.Name,
		Path:     "/",
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// Set attaches value as the auth cookie.
func (p Policy) Set(c echo.Context, value string) {
	ck := p.base()
	ck.Value = value
	ck.MaxAge = int(p.MaxAge / time.Second)
	ck.Expires = time.Now().Add(p.MaxAge)
	c.SetCookie(ck)
}

// Clear expires the auth cookie using the same name and attributes.
func (p Policy) Clear(c echo.Context) {
	ck := p.base()
	ck.MaxAge = -1
	ck.Expires = time.Unix(0, 0)
	c.SetCookie(ck)
}

// Read returns the auth cookie value, or "" when absent.
func (p Policy) Read(c echo.Context) string {
	ck, err := c.Cookie(p.Name)
	if err != nil {
		return ""
	}
	return ck.Value
}
