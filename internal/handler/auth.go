package handler

import (
	"net/http"
	"strings"

	"github.com/authstack/backend/internal/model"
	"github.com/authstack/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login godoc
// @Summary Login
// @Description Authenticates a user and returns an access/refresh token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Username and password"
// @Success 200 {object} model.LoginResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeLoginError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Logout
// @Description Revokes the presented access token. Safe to repeat.
// @Tags auth
// @Produce plain
// @Security BearerAuth
// @Success 200 {string} string "Logout successful"
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := bearerToken(c)
	h.svc.Logout(c.Request.Context(), token)
	c.String(http.StatusOK, "Logout successful")
}

// Refresh godoc
// @Summary Refresh tokens
// @Description Rotates a refresh token into a new access/refresh pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RefreshRequest true "Refresh token"
// @Success 200 {object} model.TokenResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Validate godoc
// @Summary Validate a token
// @Description Always answers 200 with a boolean body; validity is never
// signalled through the status code.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {boolean} boolean
// @Router /api/v1/auth/validate [post]
func (h *AuthHandler) Validate(c *gin.Context) {
	token := bearerToken(c)
	c.JSON(http.StatusOK, h.svc.ValidateToken(c.Request.Context(), token))
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return strings.TrimSpace(header)
}
