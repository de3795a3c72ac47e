package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
	"github.com/iliyamo/planetarium-reservation/internal/middleware"
)

// respondError writes err as JSON. Validation errors carry field detail:
//
//	{"error": "seat: seat must be in range [1, 5], not 6", "fields": {"seat": ["..."]}}
//
// Unknown errors are returned to echo as a 500 so the request logger
// records the cause while the client only sees a generic message.
func respondError(c echo.Context, err error) error {
	if ve, ok := apperr.AsValidation(err); ok {
		field := ve.Field
		if field == "" {
			field = "non_field_errors"
		}
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  ve.Error(),
			"fields": map[string][]string{field: {ve.Message}},
		})
	}
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

// ErrorHandler renders errors that reach echo (unknown routes, 405s from
// the router, 500s from respondError) in the same {"error": ...} shape.
// Server errors also carry the request id so they can be found in the log.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	msg := "internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(status)
		}
	} else if s := apperr.HTTPStatus(err); s != http.StatusInternalServerError {
		status, msg = s, err.Error()
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	body := echo.Map{"error": msg}
	if status >= http.StatusInternalServerError {
		if rid := middleware.RequestID(c); rid != "" {
			body["request_id"] = rid
		}
	}
	_ = c.JSON(status, body)
}
