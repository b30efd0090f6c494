package handler

import (
	"net/http"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/middleware"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"
	"github.com/wlmost/dog-school-app-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct {
	svc   service.AuthService
	users repository.UserRepository
}

func NewAuthHandler(svc service.AuthService, users repository.UserRepository) *AuthHandler {
	return &AuthHandler{svc: svc, users: users}
}

// Register godoc
// @Summary      Kundenkonto registrieren
// @Description  Legt ein Benutzerkonto mit Kundenprofil an und versendet die Willkommens-E-Mail.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.RegisterRequest true "Registrierungsdaten"
// @Success      201  {object} dto.UserResponse
// @Failure      409  {object} apierror.APIError
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	user, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login godoc
// @Summary      Anmelden
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.LoginRequest true "Zugangsdaten"
// @Success      200  {object} dto.LoginResponse
// @Failure      422  {object} apierror.APIError
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary      Token erneuern
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.RefreshRequest true "Refresh-Token"
// @Success      200  {object} dto.LoginResponse
// @Failure      422  {object} apierror.APIError
// @Router       /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me godoc
// @Summary      Eigenes Konto abrufen
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.UserResponse
// @Failure      401 {object} apierror.APIError
// @Router       /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token ungültig"))
		return
	}
	user, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}
