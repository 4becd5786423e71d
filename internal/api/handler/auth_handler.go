package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pitwall/tourney-system/internal/api/metrics"
	"github.com/pitwall/tourney-system/internal/core/domain"
	"github.com/pitwall/tourney-system/internal/core/ports"
)

type AuthHandler struct {
	session ports.SessionStore
}

func NewAuthHandler(session ports.SessionStore) *AuthHandler {
	return &AuthHandler{session: session}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Secret   string `json:"secret" validate:"required"`
}

type sessionResponse struct {
	Identity     *domain.Identity    `json:"identity,omitempty"`
	Capabilities domain.Capabilities `json:"capabilities"`
	Token        string              `json:"token,omitempty"`
}

// Login authenticates against the account registry and opens the session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	token, id, err := h.session.Login(c.Request().Context(), req.Username, req.Secret)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure", "none").Inc()
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		}
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success", string(id.Role)).Inc()

	return c.JSON(http.StatusOK, sessionResponse{
		Identity:     id,
		Capabilities: domain.CapabilitiesFor(id),
		Token:        token,
	})
}

// Logout clears the session and its persisted identity.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.session.Logout(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// Session reports the current identity and its capability flags. Flags are
// recomputed from the session on every call, never cached.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	id := h.session.Current()
	return c.JSON(http.StatusOK, sessionResponse{
		Identity:     id,
		Capabilities: domain.CapabilitiesFor(id),
	})
}
