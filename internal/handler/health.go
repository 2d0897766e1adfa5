// Package handler holds the HTTP handlers for the auth API.
package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/authkit/internal/response"
)

// MsgHealthy is the health check message.
const MsgHealthy = "Server is running"

// Health is a liveness endpoint for load balancers and monitoring.  It
// always answers 200 with the envelope and the current server time.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, response.Envelope{
		Success:   true,
		Message:   MsgHealthy,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}
