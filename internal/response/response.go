// Package response writes the uniform JSON envelope every endpoint returns:
// a `success` flag, a human-readable `message`, and `data` on success only.
package response

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/authkit/internal/logging"
)

// Messages shared by more than one layer.
const (
	MsgInternal      = "Internal server error"
	MsgRouteNotFound = "Route not found"
)

// Envelope is the response body shape.
type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// OK writes a success envelope.  data may be nil.
func OK(c echo.Context, status int, msg string, data any) error {
	return c.JSON(status, Envelope{Success: true, Message: msg, Data: data})
}

// Fail writes an error envelope; error bodies never carry data.
func Fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, Envelope{Success: false, Message: msg})
}

// ErrorHandler replaces Echo's default HTTPErrorHandler.  Unmatched routes
// (including a known path with the wrong method) become 404 "Route not
// found"; client errors raised by Echo keep their status; everything else
// is logged and reported as a generic 500.
func ErrorHandler(log logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		msg := MsgInternal

		var he *echo.HTTPError
		if errors.As(err, &he) {
			switch {
			case he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed:
				status, msg = http.StatusNotFound, MsgRouteNotFound
			case he.Code >= 400 && he.Code < 500:
				status = he.Code
				msg = http.StatusText(he.Code)
				if m, ok := he.Message.(string); ok && m != "" {
					msg = m
				}
			}
		}

		if status >= http.StatusInternalServerError {
			log.Error(c.Request().Context(), "unhandled error",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"err", err)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = Fail(c, status, msg)
		}
		if werr != nil {
			log.Error(c.Request().Context(), "write error response", "err", werr)
		}
	}
}
