package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/quotes/internal/entities"
	"github.com/mrlokans/quotes/internal/tasks"
)

// TasksController handles task queue management endpoints.
type TasksController struct {
	client             *tasks.Client
	auditRetentionDays int
}

func NewTasksController(client *tasks.Client, auditRetentionDays int) *TasksController {
	return &TasksController{client: client, auditRetentionDays: auditRetentionDays}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ListTaskTypes handles GET /api/tasks/types
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"task_types": []TaskTypeInfo{
			{Type: "push_quote", Description: "Send one quote to the remote source"},
			{Type: "cleanup_audit_events", Description: "Delete audit events past the retention period"},
		},
	})
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.client.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

// RunTaskRequest is the request body for running a task.
type RunTaskRequest struct {
	// Text and Category are required for push_quote
	Text     string `json:"text,omitempty" form:"text"`
	Category string `json:"category,omitempty" form:"category"`
	// RetentionDays overrides the configured retention for cleanup_audit_events
	RetentionDays int `json:"retention_days,omitempty" form:"retention_days"`
}

// RunTask handles POST /api/tasks/:type/run
func (tc *TasksController) RunTask(c *gin.Context) {
	taskType := c.Param("type")

	var req RunTaskRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBind(&req); err != nil {
			respondBadRequest(c, "invalid request body")
			return
		}
	}

	var task backlite.Task
	switch taskType {
	case "push_quote":
		quote := entities.NewQuote(req.Text, req.Category)
		if !quote.IsValid() {
			respondBadRequest(c, "text and category are required for push_quote task")
			return
		}
		task = tasks.PushQuoteTask{Text: quote.Text, Category: quote.Category}

	case "cleanup_audit_events":
		retention := req.RetentionDays
		if retention <= 0 {
			retention = tc.auditRetentionDays
		}
		task = tasks.CleanupAuditEventsTask{RetentionDays: retention}

	default:
		respondBadRequest(c, fmt.Sprintf("unknown task type: %s", taskType))
		return
	}

	ids, err := tc.client.Add(task).Save()
	if err != nil {
		respondInternalError(c, err, "enqueue task")
		return
	}

	respondAccepted(c, "task enqueued", gin.H{"task_id": ids[0], "type": taskType})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
