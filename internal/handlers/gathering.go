package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/oomip/gatherly/internal/middleware"
	"github.com/oomip/gatherly/internal/services"
	"github.com/oomip/gatherly/pkg/logger"
	"github.com/oomip/gatherly/pkg/response"
	"gorm.io/gorm"
)

type GatheringHandler struct {
	gatheringService *services.GatheringService
	userService      *services.UserService
	formatter        *services.ResponseFormatter
	taskQueue        services.TaskQueue
	errors           *ErrorRenderer
}

func NewGatheringHandler(db *gorm.DB, taskQueue services.TaskQueue) *GatheringHandler {
	gatheringService := services.NewGatheringService(db)
	userService := services.NewUserService(db)
	return &GatheringHandler{
		gatheringService: gatheringService,
		userService:      userService,
		formatter:        services.NewResponseFormatter(userService),
		taskQueue:        taskQueue,
		errors:           NewErrorRenderer(userService, gatheringService),
	}
}

// List returns gatherings matching optional filters, formatted for display
// GET /api/gatherings
func (h *GatheringHandler) List(c *gin.Context) {
	var req services.GatheringListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	gatherings, err := h.gatheringService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	views, err := h.formatter.Gatherings(gatherings)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, views)
}

// GetByID returns one gathering, formatted for display
// GET /api/gatherings/:id
func (h *GatheringHandler) GetByID(c *gin.Context) {
	gathering, err := h.gatheringService.GetByID(c.Param("id"))
	if err != nil {
		h.errors.Render(c, err)
		return
	}

	view, err := h.formatter.Gathering(gathering)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, view)
}

// Create makes a new gathering with the session user as author and sole member
// POST /api/gatherings
func (h *GatheringHandler) Create(c *gin.Context) {
	var req services.CreateGatheringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	gathering, err := h.gatheringService.Create(&req, middleware.GetUserID(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	view, err := h.formatter.Gathering(gathering)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Created(c, gin.H{"message": "Gathering successfully created!", "gathering": view})
}

// Update edits a gathering's fields, guarded by CanEdit
// PATCH /api/gatherings/:id
func (h *GatheringHandler) Update(c *gin.Context) {
	id := c.Param("id")

	if err := h.gatheringService.CanEdit(middleware.GetUserID(c), id); err != nil {
		h.errors.Render(c, err)
		return
	}

	var req services.UpdateGatheringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, err := h.gatheringService.Update(id, &req); err != nil {
		h.errors.Render(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Gathering successfully updated!"})
}

// Delete removes a gathering, guarded by CanEdit
// DELETE /api/gatherings/:id
func (h *GatheringHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.gatheringService.CanEdit(middleware.GetUserID(c), id); err != nil {
		h.errors.Render(c, err)
		return
	}

	name, err := h.gatheringService.Delete(id)
	if err != nil {
		h.errors.Render(c, err)
		return
	}
	response.Success(c, gin.H{"message": fmt.Sprintf("Gathering '%s' deleted!", name)})
}

// CheckEditable probes CanEdit and reports the outcome as a boolean; any
// failure means "not editable", never an error body.
// GET /api/gatherings/:id/checkEditable
func (h *GatheringHandler) CheckEditable(c *gin.Context) {
	err := h.gatheringService.CanEdit(middleware.GetUserID(c), c.Param("id"))
	response.Success(c, gin.H{"editable": err == nil})
}

// ByMember lists the gatherings the session user belongs to
// GET /api/gatherings/byMember
func (h *GatheringHandler) ByMember(c *gin.Context) {
	gatherings, err := h.gatheringService.GetGatheringsOfMember(middleware.GetUserID(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	views, err := h.formatter.Gatherings(gatherings)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, views)
}

// EditableByMember lists the gatherings the session user can still edit
// GET /api/gatherings/editableByMember
func (h *GatheringHandler) EditableByMember(c *gin.Context) {
	gatherings, err := h.gatheringService.GetEditableGatheringsOfMember(middleware.GetUserID(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	views, err := h.formatter.Gatherings(gatherings)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, views)
}

// Members returns the usernames of a gathering's members
// GET /api/gatherings/:id/members
func (h *GatheringHandler) Members(c *gin.Context) {
	memberIDs, err := h.gatheringService.GetMembers(c.Param("id"))
	if err != nil {
		h.errors.Render(c, err)
		return
	}

	usernames, err := h.userService.IdsToUsernames(memberIDs)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, usernames)
}

// Join adds the session user to a gathering and queues group formation
// POST /api/gatherings/:id/join
func (h *GatheringHandler) Join(c *gin.Context) {
	id := c.Param("id")
	userID := middleware.GetUserID(c)

	if err := h.gatheringService.AddMember(id, userID); err != nil {
		h.errors.Render(c, err)
		return
	}

	if h.taskQueue != nil {
		task := &services.GroupFormTask{GatheringID: id, UserID: userID}
		if err := h.taskQueue.Enqueue(task); err != nil {
			logger.Warn().Err(err).Str("gathering", id).Msg("failed to enqueue group formation")
		}
	}

	response.Success(c, gin.H{"message": "Member successfully added to Gathering!"})
}

// Leave removes the session user from a gathering
// POST /api/gatherings/:id/leave
func (h *GatheringHandler) Leave(c *gin.Context) {
	if err := h.gatheringService.RemoveMember(c.Param("id"), middleware.GetUserID(c)); err != nil {
		h.errors.Render(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Member successfully removed from Gathering!"})
}

// CheckMember reports whether the session user belongs to the gathering
// GET /api/gatherings/:id/checkMember
func (h *GatheringHandler) CheckMember(c *gin.Context) {
	isMember, err := h.gatheringService.IsMemberOf(middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		h.errors.Render(c, err)
		return
	}
	response.Success(c, gin.H{"member": isMember})
}
