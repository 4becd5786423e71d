package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pitwall/tourney-system/internal/core/domain"
	"github.com/pitwall/tourney-system/internal/core/ports"
)

// AccountHandler serves the root-only account management surface.
type AccountHandler struct {
	registry ports.AccountRegistry
}

func NewAccountHandler(registry ports.AccountRegistry) *AccountHandler {
	return &AccountHandler{registry: registry}
}

type addAccountRequest struct {
	Username string `json:"username" validate:"required"`
	Secret   string `json:"secret" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=root admin user"`
}

type accountResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// List returns every account, secrets excluded.
//
// @Summary      List accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  accountResponse
// @Router       /v1/accounts [get]
func (h *AccountHandler) List(c echo.Context) error {
	accounts, err := h.registry.List(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountResponse{Username: a.Username, Role: string(a.Role)})
	}
	return c.JSON(http.StatusOK, out)
}

// Add creates a new account.
//
// @Summary      Add an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addAccountRequest  true  "Account details"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/accounts [post]
func (h *AccountHandler) Add(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req addAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	role, _ := domain.ParseRole(req.Role)
	account, err := h.registry.Add(c.Request().Context(), actor, req.Username, req.Secret, role)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, accountResponse{
		Username: account.Username,
		Role:     string(account.Role),
	})
}

// Remove deletes an account. Removing the last root fails with 422.
//
// @Summary      Remove an account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        username  path  string  true  "Account username"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/accounts/{username} [delete]
func (h *AccountHandler) Remove(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.registry.Remove(c.Request().Context(), actor, c.Param("username")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
