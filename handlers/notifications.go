package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Notifications(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	unreadOnly := c.Query("unread") == "true"

	notifications, err := h.HistoryService.Notifications(c.Request.Context(), user.ID, unreadOnly)
	if err != nil {
		respondError(c, "notifications", err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.HistoryService.MarkNotificationRead(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		respondError(c, "mark_notification_read", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}
