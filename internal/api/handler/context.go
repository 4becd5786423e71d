package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pitwall/tourney-system/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware. A
// missing or malformed role proves the middleware did not run for this
// route; fail fast before any service call.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	username, _ := c.Get("username").(string)
	role, ok := c.Get("role").(domain.Role)
	if username == "" || !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return &domain.Identity{Username: username, Role: role}, nil
}
