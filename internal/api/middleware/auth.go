package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/userhub/identity-service/internal/core/auth"
)

// AuthContextKey is the echo context key the per-request auth.Context is
// stored under.
const AuthContextKey = "auth_context"

// Auth builds the per-request auth.Context from the Authorization header and
// stores it on the echo context. It never rejects a request itself: a
// missing, malformed or invalid token yields the anonymous context, and the
// guard checks inside the services decide what that means for each operation.
func Auth(guard *auth.Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := BearerToken(c.Request().Header.Get("Authorization"))
			c.Set(AuthContextKey, guard.FromToken(c.Request().Context(), raw))
			return next(c)
		}
	}
}

// BearerToken extracts the token from an Authorization header value. Anything
// that is not exactly two space-separated parts with the first part literally
// "Bearer" is treated identically to no token at all.
func BearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
