package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"osfr/internal/auth"
	apperrors "osfr/internal/errors"
	"osfr/internal/middleware"
	"osfr/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents an administrator login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// MessageResponse is a plain confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// Login godoc
// @Summary Log in as administrator
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.MessageResponse
// @Failure 500 {object} errors.MessageResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return apperrors.Unauthenticated(err.Error())
		case errors.Is(err, auth.ErrSecretNotConfigured):
			return apperrors.Configuration("server is not configured", err)
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, apperrors.MessageResponse{Msg: "server error"}).SetInternal(err)
		}
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token})
}

// Logout godoc
// @Summary Revoke the presented token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.MessageResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/admin/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), middleware.IdentityFrom(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

// Me godoc
// @Summary Current administrator
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Account
// @Failure 401 {object} errors.MessageResponse
// @Router /api/admin/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.AccountFrom(c))
}

// Dashboard godoc
// @Summary Admin dashboard check
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.MessageResponse
// @Router /api/admin/dashboard [get]
func (h *AuthHandler) Dashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "Admin dashboard"})
}
