package main

import (
	"github.com/oomip/gatherly/internal/config"
	"github.com/oomip/gatherly/internal/handlers"
	"github.com/oomip/gatherly/internal/models"
	"github.com/oomip/gatherly/internal/services"
	"github.com/oomip/gatherly/internal/utils"
	"github.com/oomip/gatherly/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg              *config.Config
	taskQueue        services.TaskQueue
	worker           *services.Worker
	authHandler      *handlers.AuthHandler
	userHandler      *handlers.UserHandler
	gatheringHandler *handlers.GatheringHandler
	postHandler      *handlers.PostHandler
	groupHandler     *handlers.GroupHandler
}

// bootstrap initializes all application dependencies: database, services,
// background workers and schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	// Start expired-session cleanup scheduler
	services.StartSessionCleanupScheduler(db, &cfg.JWT)

	// Initialize task queue (uses Redis if enabled, otherwise sync mode)
	groupFormer := services.NewGroupFormer(db)
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(groupFormer.Process)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(groupFormer.Process)
			if err := worker.Start(); err != nil {
				logger.Warn().Err(err).Msg("Failed to start async worker")
			}
		}
	}

	authHandler := handlers.NewAuthHandler(db, &cfg.JWT)

	return &appServices{
		cfg:              cfg,
		taskQueue:        taskQueue,
		worker:           worker,
		authHandler:      authHandler,
		userHandler:      handlers.NewUserHandler(db, authHandler.Service()),
		gatheringHandler: handlers.NewGatheringHandler(db, taskQueue),
		postHandler:      handlers.NewPostHandler(db),
		groupHandler:     handlers.NewGroupHandler(db),
	}
}

// shutdown gracefully stops all background services.
func (s *appServices) shutdown() {
	services.StopSessionCleanupScheduler()

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	logger.Info().Msg("All background services stopped")
}
