package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/oomip/gatherly/internal/middleware"
	"github.com/oomip/gatherly/internal/services"
	"github.com/oomip/gatherly/pkg/response"
	"gorm.io/gorm"
)

type PostHandler struct {
	postService *services.PostService
	userService *services.UserService
	formatter   *services.ResponseFormatter
	errors      *ErrorRenderer
}

func NewPostHandler(db *gorm.DB) *PostHandler {
	postService := services.NewPostService(db)
	userService := services.NewUserService(db)
	return &PostHandler{
		postService: postService,
		userService: userService,
		formatter:   services.NewResponseFormatter(userService),
		errors:      NewErrorRenderer(userService, services.NewGatheringService(db)),
	}
}

// List returns all posts, or one author's posts when ?author= is given
// GET /api/posts
func (h *PostHandler) List(c *gin.Context) {
	author := c.Query("author")
	if author != "" {
		user, err := h.userService.GetByUsername(author)
		if err != nil {
			h.errors.Render(c, err)
			return
		}
		list, err := h.postService.ListByAuthor(user.ID)
		if err != nil {
			response.ServerError(c, err.Error())
			return
		}
		views, err := h.formatter.Posts(list)
		if err != nil {
			response.ServerError(c, err.Error())
			return
		}
		response.Success(c, views)
		return
	}

	list, err := h.postService.List()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	views, err := h.formatter.Posts(list)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, views)
}

// Create makes a new post authored by the session user
// POST /api/posts
func (h *PostHandler) Create(c *gin.Context) {
	var req services.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.postService.Create(middleware.GetUserID(c), &req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	view, err := h.formatter.Post(post)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Created(c, gin.H{"message": "Post successfully created!", "post": view})
}

// Update edits a post, guarded by authorship
// PATCH /api/posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	id := c.Param("id")

	if err := h.postService.IsAuthor(middleware.GetUserID(c), id); err != nil {
		h.errors.Render(c, err)
		return
	}

	var req services.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, err := h.postService.Update(id, &req); err != nil {
		h.errors.Render(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Post successfully updated!"})
}

// Delete removes a post, guarded by authorship
// DELETE /api/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.postService.IsAuthor(middleware.GetUserID(c), id); err != nil {
		h.errors.Render(c, err)
		return
	}

	if err := h.postService.Delete(id); err != nil {
		h.errors.Render(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Post deleted successfully!"})
}
