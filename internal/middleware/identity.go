package middleware

import "github.com/labstack/echo/v4"

// userID returns a stable identifier for rate limiting and logging: the
// session username, or "guest" for anonymous callers.
func userID(c echo.Context) string {
	if u, ok := CurrentUser(c); ok {
		return u
	}
	return "guest"
}
