package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/userhub/identity-service/internal/api/middleware"
	"github.com/userhub/identity-service/internal/core/auth"
)

// authContext extracts the auth.Context stored by the Auth middleware.
// Handlers mounted outside the middleware (or a miswired route) get the
// anonymous context, which fails every guard check downstream.
func authContext(c echo.Context) auth.Context {
	if ac, ok := c.Get(middleware.AuthContextKey).(auth.Context); ok {
		return ac
	}
	return auth.Anonymous()
}
