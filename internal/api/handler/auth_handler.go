package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AssetAkire/Capstone-FacilityFix/internal/api/metrics"
	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/domain"
	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/ports"
)

// AuthHandler issues caller credentials.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates against the identity provider and returns a JWT
// carrying the uid and user_role claims.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.E(domain.KindInvalidArgument, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.E(domain.KindInvalidArgument, err.Error())
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: token})
}
