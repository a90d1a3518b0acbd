package handler // package handler holds the HTTP handlers of the seating API

import (
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4" // Echo web framework
)

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems.  It returns a plain text "ok" with 200.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok") // plain text body
}
