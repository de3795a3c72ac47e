package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
)

// MethodNotAllowed answers operations the API deliberately does not offer,
// such as deleting a session or editing a reservation. It is mounted behind
// Authorize, so callers without the required role still get 401/403.
func MethodNotAllowed(c echo.Context) error {
	return respondError(c, apperr.ErrMethodNotAllowed)
}
