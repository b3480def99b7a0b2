package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/oomip/gatherly/internal/middleware"
	"github.com/oomip/gatherly/internal/services"
	"github.com/oomip/gatherly/pkg/response"
	"gorm.io/gorm"
)

type UserHandler struct {
	userService *services.UserService
	authService *services.AuthService
	formatter   *services.ResponseFormatter
}

func NewUserHandler(db *gorm.DB, authService *services.AuthService) *UserHandler {
	userService := services.NewUserService(db)
	return &UserHandler{
		userService: userService,
		authService: authService,
		formatter:   services.NewResponseFormatter(userService),
	}
}

// List returns all usernames
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, h.formatter.Usernames(users))
}

// GetByUsername returns one user
// GET /api/users/:username
func (h *UserHandler) GetByUsername(c *gin.Context) {
	user, err := h.userService.GetByUsername(c.Param("username"))
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	response.Success(c, user)
}

// Create registers a new account. Only available while logged out.
// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	if c.GetHeader("Authorization") != "" {
		response.Forbidden(c, "already logged in")
		return
	}

	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Create(&req)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// Update changes the current user's username or password
// PATCH /api/users
func (h *UserHandler) Update(c *gin.Context) {
	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Update(middleware.GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// Delete removes the current user's account and ends all their sessions
// DELETE /api/users
func (h *UserHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if err := h.authService.RevokeUserSessions(userID); err != nil {
		response.ServerError(c, err.Error())
		return
	}
	if err := h.userService.Delete(userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "account deleted"})
}
