package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// UserIDHeader carries the caller identity set by the fronting gateway.
const UserIDHeader = "X-User-ID"

const anonymous = "anon"

// callerID returns the identity used to key per-user limits: the
// X-User-ID header, then the user_id or customer_id query parameter,
// else "anon".  It is not authentication.
func callerID(c echo.Context) string {
	if v := strings.TrimSpace(c.Request().Header.Get(UserIDHeader)); v != "" {
		return v
	}
	for _, name := range []string{"user_id", "customer_id"} {
		if v := strings.TrimSpace(c.QueryParam(name)); v != "" {
			return v
		}
	}
	return anonymous
}
