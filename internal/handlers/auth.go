package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/oomip/gatherly/internal/config"
	"github.com/oomip/gatherly/internal/middleware"
	"github.com/oomip/gatherly/internal/services"
	"github.com/oomip/gatherly/pkg/response"
	"gorm.io/gorm"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthHandler {
	return &AuthHandler{
		authService: services.NewAuthService(db, jwtCfg),
	}
}

// Service exposes the underlying auth service for middleware wiring.
func (h *AuthHandler) Service() *services.AuthService {
	return h.authService
}

// Login starts a session
// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(&req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	response.Success(c, result)
}

// Logout ends the current session
// POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(middleware.GetToken(c)); err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "Logged out!"})
}

// GetSessionUser returns the user behind the current session
// GET /api/session
func (h *AuthHandler) GetSessionUser(c *gin.Context) {
	user, err := h.authService.GetUserByID(middleware.GetUserID(c))
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	response.Success(c, user)
}
