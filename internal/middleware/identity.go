package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/planetarium-reservation/internal/policy"
)

// Context keys. "user_id" and "role" stay readable by handlers that only
// need the raw values.
const (
	ctxPrincipal = "principal"
	ctxUserID    = "user_id"
	ctxRole      = "role"
	ctxRequestID = "request_id"
)

// SetPrincipal stores the authenticated caller on the echo context.
func SetPrincipal(c echo.Context, p policy.Principal) {
	c.Set(ctxPrincipal, p)
	c.Set(ctxUserID, p.UserID)
	c.Set(ctxRole, p.Role)
}

// PrincipalFrom returns the caller set by Authenticate, or the anonymous
// principal when none was set.
func PrincipalFrom(c echo.Context) policy.Principal {
	if p, ok := c.Get(ctxPrincipal).(policy.Principal); ok {
		return p
	}
	return policy.Principal{}
}

// RequestID returns the id assigned by RequestLogger.
func RequestID(c echo.Context) string {
	s, _ := c.Get(ctxRequestID).(string)
	return s
}

// userKey identifies the caller for rate-limit buckets: the user id, or
// "anon".
func userKey(c echo.Context) string {
	if p := PrincipalFrom(c); p.Authenticated() {
		return strconv.FormatUint(p.UserID, 10)
	}
	return "anon"
}
