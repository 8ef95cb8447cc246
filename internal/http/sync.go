package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/quotes/internal/settingsstore"
	"github.com/mrlokans/quotes/internal/syncagent"
)

// SyncController handles manual reconciles and sync settings.
type SyncController struct {
	scheduler SyncRunner
	agent     SyncStatusReporter
	settings  SyncSettings
}

func NewSyncController(scheduler SyncRunner, agent SyncStatusReporter, settings SyncSettings) *SyncController {
	return &SyncController{
		scheduler: scheduler,
		agent:     agent,
		settings:  settings,
	}
}

// SyncStatusResponse is the body of GET /api/sync/status.
type SyncStatusResponse struct {
	Agent     syncagent.Status             `json:"agent"`
	Config    settingsstore.SyncConfigInfo `json:"config"`
	LastRun   settingsstore.SyncStatus     `json:"last_run"`
	Scheduled bool                         `json:"scheduled"`
	Syncing   bool                         `json:"syncing"`
	NextRunAt *time.Time                   `json:"next_run_at,omitempty"`
}

// SyncSettingsRequest is the body of PUT /api/sync/settings. Omitted fields
// keep their current value.
type SyncSettingsRequest struct {
	Enabled  *bool   `json:"enabled"`
	Schedule *string `json:"schedule"`
}

// SyncNow handles POST /api/sync
// Runs one reconcile and waits for it.
func (sc *SyncController) SyncNow(c *gin.Context) {
	result, err := sc.scheduler.SyncNow(c.Request.Context())
	if err != nil {
		respondDomainError(c, err, "manual sync")
		return
	}

	message := "No new quotes on the server."
	if result.Merged > 0 {
		message = fmt.Sprintf("%d new quotes synced from server.", result.Merged)
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: message, Data: result})
}

// GetStatus handles GET /api/sync/status
func (sc *SyncController) GetStatus(c *gin.Context) {
	ctx := c.Request.Context()

	c.JSON(http.StatusOK, SyncStatusResponse{
		Agent:     sc.agent.Status(),
		Config:    sc.settings.GetSyncConfigInfo(ctx),
		LastRun:   sc.settings.GetSyncStatus(ctx),
		Scheduled: sc.scheduler.IsRunning(),
		Syncing:   sc.scheduler.IsSyncing(),
		NextRunAt: sc.scheduler.GetNextRunTime(),
	})
}

// UpdateSettings handles PUT /api/sync/settings
// Saves the overrides and restarts the schedule with them.
func (sc *SyncController) UpdateSettings(c *gin.Context) {
	ctx := c.Request.Context()

	var req SyncSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Enabled == nil && req.Schedule == nil {
		respondBadRequest(c, "enabled or schedule is required")
		return
	}

	if req.Schedule != nil {
		schedule := strings.TrimSpace(*req.Schedule)
		if err := settingsstore.ValidateCronSchedule(schedule); err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		if err := sc.settings.SetSyncSchedule(ctx, schedule); err != nil {
			respondInternalError(c, err, "save sync schedule")
			return
		}
	}
	if req.Enabled != nil {
		if err := sc.settings.SetSyncEnabled(ctx, *req.Enabled); err != nil {
			respondInternalError(c, err, "save sync enabled")
			return
		}
	}

	if err := sc.scheduler.Reschedule(); err != nil {
		respondInternalError(c, err, "reschedule sync")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Sync settings saved.",
		Data:    sc.settings.GetSyncConfigInfo(ctx),
	})
}
