package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/oomip/gatherly/internal/models"
	"github.com/oomip/gatherly/internal/services"
)

// HealthHandler reports the status of the service's subsystems.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// CheckHealth returns the health status of all subsystems.
// GET /health
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	// Database check
	dbStatus := "ok"
	sqlDB, err := models.GetDB().DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	// Queue mode
	taskQueue := services.GetTaskQueue()
	queueMode := "sync"
	if taskQueue != nil && taskQueue.IsAsync() {
		queueMode = "async (Redis)"
	}

	// Group-formation worker
	workerStatus := "off"
	if worker := services.GetWorker(); worker != nil && worker.IsRunning() {
		workerStatus = "running"
	}

	var gatheringCount int64
	models.GetDB().Model(&models.Gathering{}).Count(&gatheringCount)

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "gatherly",
		"components": gin.H{
			"database":   dbStatus,
			"queue_mode": queueMode,
			"worker":     workerStatus,
			"gatherings": gatheringCount,
		},
	})
}
