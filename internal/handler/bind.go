package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
)

// normalizer is implemented by bodies that trim their fields before the
// validate tags are checked.
type normalizer interface {
	normalize()
}

// bind decodes the request body into dst and runs the echo validator on
// it. Undecodable bodies fail with a non-field validation error.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return apperr.Invalid("", "invalid body")
	}
	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}
	return c.Validate(dst)
}
