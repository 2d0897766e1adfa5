package cookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCookies(t *testing.T, fn func(c echo.Context)) []*http.Cookie {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	fn(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec))
	return rec.Result().Cookies()
}

func TestPolicy_SetAttributes(t *testing.T) {
	p := NewPolicy(false, 5*24*time.Hour)
	cookies := setCookies(t, func(c echo.Context) { p.Set(c, "abc") })

	require.Len(t, cookies, 1)
	ck := cookies[0]
	assert.Equal(t, "token", ck.Name)
	assert.Equal(t, "abc", ck.Value)
	assert.Equal(t, "/", ck.Path)
	assert.True(t, ck.HttpOnly)
	assert.False(t, ck.Secure)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
	assert.Equal(t, 5*24*60*60, ck.MaxAge)
}

func TestPolicy_SecureInProduction(t *testing.T) {
	p := NewPolicy(true, time.Hour)
	cookies := setCookies(t, func(c echo.Context) { p.Set(c, "abc") })

	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
}

func TestPolicy_ClearExpiresWithSameAttributes(t *testing.T) {
	p := NewPolicy(true, time.Hour)
	cookies := setCookies(t, func(c echo.Context) { p.Clear(c) })

	require.Len(t, cookies, 1)
	ck := cookies[0]
	assert.Equal(t, "token", ck.Name)
	assert.Empty(t, ck.Value)
	assert.Less(t, ck.MaxAge, 0)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
	assert.Equal(t, "/", ck.Path)
}

func TestPolicy_Read(t *testing.T) {
	p := NewPolicy(false, time.Hour)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, p.Read(e.NewContext(req, httptest.NewRecorder())))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "xyz"})
	assert.Equal(t, "xyz", p.Read(e.NewContext(req, httptest.NewRecorder())))
}
