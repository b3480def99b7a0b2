package main

import (
	"github.com/gin-gonic/gin"
	"github.com/oomip/gatherly/internal/handlers"
	"github.com/oomip/gatherly/internal/middleware"
	"github.com/oomip/gatherly/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for credential endpoints
	authLimiter := middleware.NewRateLimiter(svc.cfg.RateLimit.RPS, svc.cfg.RateLimit.Burst)

	// Health check
	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)

	api := r.Group("/api")
	{
		// Public routes
		api.POST("/login", authLimiter.Middleware(), svc.authHandler.Login)
		api.POST("/users", authLimiter.Middleware(), svc.userHandler.Create)
		api.GET("/users", svc.userHandler.List)
		api.GET("/users/:username", svc.userHandler.GetByUsername)
		api.GET("/gatherings", svc.gatheringHandler.List)
		api.GET("/gatherings/:id", svc.gatheringHandler.GetByID)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(svc.authHandler.Service()))
		{
			// Session
			protected.GET("/session", svc.authHandler.GetSessionUser)
			protected.POST("/logout", svc.authHandler.Logout)

			// Current user
			protected.PATCH("/users", svc.userHandler.Update)
			protected.DELETE("/users", svc.userHandler.Delete)

			// Gatherings
			protected.POST("/gatherings", svc.gatheringHandler.Create)
			protected.GET("/gatherings/byMember", svc.gatheringHandler.ByMember)
			protected.GET("/gatherings/editableByMember", svc.gatheringHandler.EditableByMember)
			protected.PATCH("/gatherings/:id", svc.gatheringHandler.Update)
			protected.DELETE("/gatherings/:id", svc.gatheringHandler.Delete)
			protected.GET("/gatherings/:id/checkEditable", svc.gatheringHandler.CheckEditable)
			protected.GET("/gatherings/:id/members", svc.gatheringHandler.Members)
			protected.POST("/gatherings/:id/join", svc.gatheringHandler.Join)
			protected.POST("/gatherings/:id/leave", svc.gatheringHandler.Leave)
			protected.GET("/gatherings/:id/checkMember", svc.gatheringHandler.CheckMember)

			// Posts
			protected.GET("/posts", svc.postHandler.List)
			protected.POST("/posts", svc.postHandler.Create)
			protected.PATCH("/posts/:id", svc.postHandler.Update)
			protected.DELETE("/posts/:id", svc.postHandler.Delete)

			// Groups
			protected.GET("/groups", svc.groupHandler.List)
			protected.GET("/groups/:id", svc.groupHandler.GetByID)
			protected.POST("/groups", svc.groupHandler.Create)
			protected.PATCH("/groups/:id", svc.groupHandler.Update)
			protected.DELETE("/groups/:id", svc.groupHandler.Delete)
		}
	}
}
