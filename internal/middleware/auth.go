package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
	"github.com/iliyamo/planetarium-reservation/internal/policy"
	"github.com/iliyamo/planetarium-reservation/internal/utils"
)

// Authenticate resolves the caller from an optional Bearer access token.
// Requests without an Authorization header continue as anonymous; a header
// that is malformed or carries an invalid token is answered with 401.
// Whether the route needs a caller at all is decided by Authorize.
func Authenticate(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if auth == "" {
				return next(c)
			}
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			uid, err := claims.UserID()
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			SetPrincipal(c, policy.Principal{UserID: uid, Role: claims.Role})
			return next(c)
		}
	}
}

// Authorize evaluates the policy for op against the current principal
// before the handler runs: 401 for anonymous callers on protected
// operations, 403 when the role is insufficient.
func Authorize(op policy.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := policy.Check(op, PrincipalFrom(c)); err != nil {
				msg := "forbidden"
				if apperr.HTTPStatus(err) == http.StatusUnauthorized {
					msg = "authentication credentials were not provided"
				}
				return c.JSON(apperr.HTTPStatus(err), echo.Map{"error": msg})
			}
			return next(c)
		}
	}
}
