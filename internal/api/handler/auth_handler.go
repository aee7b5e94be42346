package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/franqnet/console-sync/internal/core/domain"
	"github.com/franqnet/console-sync/internal/core/ports"
)

// AuthHandler serves login, logout and staff registration. Login begins a
// console session on the sync controller so a cold mirror starts its first
// full sync without an extra client call.
type AuthHandler struct {
	authService ports.AuthService
	controller  ports.SyncController
}

func NewAuthHandler(authService ports.AuthService, controller ports.SyncController) *AuthHandler {
	return &AuthHandler{authService: authService, controller: controller}
}

type registerRequest struct {
	Username    string   `json:"username" validate:"required,min=3"`
	Password    string   `json:"password" validate:"required,min=8"`
	Email       string   `json:"email,omitempty" validate:"omitempty,email"`
	Role        string   `json:"role" validate:"required,oneof=admin manager analyst"`
	Permissions []string `json:"permissions,omitempty"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token     string               `json:"token,omitempty"`
	SessionID string               `json:"session_id,omitempty"`
	User      *domain.InternalUser `json:"user,omitempty"`
}

// Register creates a new staff account.
//
// @Summary      Register a staff account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Staff account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
// @Security     BearerAuth
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Password, req.Email, domain.StaffRole(req.Role), req.Permissions)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates a staff account, begins a console session and returns
// a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, session, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	h.controller.BeginSession(c.Request().Context(), session)

	return c.JSON(http.StatusOK, authResponse{Token: token, SessionID: session.ID, User: user})
}

// Logout ends the console session and clears the local cache.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      204
// @Failure      401   {object}  map[string]string
// @Router       /auth/logout [post]
// @Security     BearerAuth
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}
	h.controller.EndSession(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}
