package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/oomip/gatherly/internal/services"
	"github.com/oomip/gatherly/pkg/response"
	"gorm.io/gorm"
)

type GroupHandler struct {
	groupService *services.GroupService
	errors       *ErrorRenderer
}

func NewGroupHandler(db *gorm.DB) *GroupHandler {
	return &GroupHandler{
		groupService: services.NewGroupService(db),
		errors:       NewErrorRenderer(services.NewUserService(db), services.NewGatheringService(db)),
	}
}

// List returns groups, optionally filtered by member
// GET /api/groups
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groupService.List(c.Query("member"))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, groups)
}

// GetByID returns one group
// GET /api/groups/:id
func (h *GroupHandler) GetByID(c *gin.Context) {
	group, err := h.groupService.GetByID(c.Param("id"))
	if err != nil {
		h.errors.Render(c, err)
		return
	}
	response.Success(c, group)
}

// Create makes a new group from a member list
// POST /api/groups
func (h *GroupHandler) Create(c *gin.Context) {
	var req services.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	group, err := h.groupService.Create(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Created(c, group)
}

// Update replaces a group's member list
// PATCH /api/groups/:id
func (h *GroupHandler) Update(c *gin.Context) {
	var req services.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	group, err := h.groupService.Update(c.Param("id"), &req)
	if err != nil {
		h.errors.Render(c, err)
		return
	}
	response.Success(c, group)
}

// Delete removes a group
// DELETE /api/groups/:id
func (h *GroupHandler) Delete(c *gin.Context) {
	if err := h.groupService.Delete(c.Param("id")); err != nil {
		h.errors.Render(c, err)
		return
	}
	response.Success(c, gin.H{"message": "group deleted successfully"})
}
