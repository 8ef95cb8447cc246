package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Optional dependencies left nil in cfg leave their routes unregistered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeaders())

	if cfg.SessionMiddleware != nil {
		router.Use(cfg.SessionMiddleware)
	}

	health := NewHealthController(cfg.Database, cfg.Quotes, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	if cfg.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	api := router.Group("/api")

	quotesController := NewQuotesController(
		cfg.Quotes,
		cfg.Filters,
		cfg.Importer,
		cfg.Pusher,
		cfg.LastQuotes,
		cfg.Recorder,
		cfg.Counter,
	)
	api.GET("/quotes", quotesController.ListQuotes)
	api.POST("/quotes", quotesController.AddQuote)
	api.GET("/quotes/random", quotesController.RandomQuote)
	api.GET("/quotes/last", quotesController.LastQuote)
	api.GET("/quotes/export", quotesController.Export)
	api.POST("/quotes/import", quotesController.Import)
	api.GET("/categories", quotesController.Categories)
	api.GET("/filter", quotesController.GetFilter)
	api.PUT("/filter", quotesController.SetFilter)

	// Sync endpoints
	if cfg.Scheduler != nil && cfg.SyncSettings != nil && cfg.SyncStatus != nil {
		syncController := NewSyncController(cfg.Scheduler, cfg.SyncStatus, cfg.SyncSettings)
		api.POST("/sync", syncController.SyncNow)
		api.GET("/sync/status", syncController.GetStatus)
		api.PUT("/sync/settings", syncController.UpdateSettings)
	}

	if cfg.Notifications != nil {
		notificationsController := NewNotificationsController(cfg.Notifications)
		api.GET("/notifications", notificationsController.List)
	}

	if cfg.AuditService != nil {
		auditController := NewAuditController(cfg.AuditService)
		api.GET("/audit", auditController.GetAuditEvents)
	}

	// Task management endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient, cfg.AuditRetentionDays)
		api.GET("/tasks/types", tasksController.ListTaskTypes)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
		api.POST("/tasks/:type/run", tasksController.RunTask)
	}

	return router
}
