package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/quotes/internal/audit"
	"github.com/mrlokans/quotes/internal/entities"
)

type AuditController struct {
	auditService *audit.Service
}

func NewAuditController(auditService *audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// GetAuditEvents returns paginated audit events as JSON
// GET /api/audit
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	page, limit := parsePage(c, 25, 100)
	eventType := c.Query("type")
	offset := (page - 1) * limit

	var events []entities.AuditEvent
	var total int64
	var err error

	if eventType != "" {
		events, total, err = ac.auditService.GetEventsByType(c.Request.Context(), entities.AuditEventType(eventType), limit, offset)
	} else {
		events, total, err = ac.auditService.GetEvents(c.Request.Context(), limit, offset)
	}

	if err != nil {
		respondInternalError(c, err, "load audit events")
		return
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, gin.H{
		"events":       events,
		"page":         page,
		"limit":        limit,
		"total_pages":  totalPages,
		"total_events": total,
		"event_types":  eventTypes(),
	})
}

func eventTypes() []entities.AuditEventType {
	return []entities.AuditEventType{
		entities.AuditEventCreate,
		entities.AuditEventImport,
		entities.AuditEventExport,
		entities.AuditEventSync,
		entities.AuditEventPush,
	}
}
