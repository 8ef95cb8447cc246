package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type NotificationsController struct {
	feed NotificationFeed
}

func NewNotificationsController(feed NotificationFeed) *NotificationsController {
	return &NotificationsController{feed: feed}
}

// List handles GET /api/notifications?after=
// Clients poll with the last ID they saw.
func (nc *NotificationsController) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notifications": nc.feed.Recent(c.Query("after")),
	})
}
