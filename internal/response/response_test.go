package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/authkit/internal/logging"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestFail_OmitsData(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, Fail(c, http.StatusConflict, "User already exists"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "User already exists", body["message"])
	_, has := body["data"]
	assert.False(t, has)
}

func TestOK_WithData(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, OK(c, http.StatusCreated, "created", echo.Map{"n": 1}))

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"n": float64(1)}, body["data"])
}

func newServer() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(logging.Discard())
	e.GET("/known", func(c echo.Context) error { return OK(c, http.StatusOK, "ok", nil) })
	e.GET("/boom", func(c echo.Context) error { return errors.New("db exploded") })
	e.GET("/bad", func(c echo.Context) error { return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "too big") })
	return e
}

func TestErrorHandler_UnmatchedRoute(t *testing.T) {
	e := newServer()

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/nope"},
		{http.MethodPost, "/known"},
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.path)
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, MsgRouteNotFound, body["message"])
	}
}

func TestErrorHandler_UnexpectedErrorIsGeneric500(t *testing.T) {
	e := newServer()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, MsgInternal, body["message"])
	assert.NotContains(t, rec.Body.String(), "db exploded")
}

func TestErrorHandler_ClientHTTPErrorKeepsStatus(t *testing.T) {
	e := newServer()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bad", nil))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "too big", decode(t, rec)["message"])
}
