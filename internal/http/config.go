package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/quotes/internal/audit"
	"github.com/mrlokans/quotes/internal/database"
	"github.com/mrlokans/quotes/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Quotes   QuoteStore
	Filters  FilterStore
	Importer Importer
	Pusher   LocalPusher
	Database *database.Database

	// Session middleware and per-visitor last quote (optional)
	SessionMiddleware gin.HandlerFunc
	LastQuotes        LastQuoteStore

	// Sync
	Scheduler    SyncRunner
	SyncStatus   SyncStatusReporter
	SyncSettings SyncSettings

	Notifications NotificationFeed

	// Audit (optional)
	AuditService *audit.Service
	Recorder     QuoteRecorder

	// Metrics (optional)
	Counter        QuoteCounter
	MetricsHandler http.Handler

	// Task queue client (optional)
	TaskClient         *tasks.Client
	AuditRetentionDays int

	// Application info
	Version string
}
