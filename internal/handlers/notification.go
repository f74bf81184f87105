package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thereayou/campus-hub/internal/middleware"
	"github.com/thereayou/campus-hub/internal/models"
	"github.com/thereayou/campus-hub/internal/notify"
)

type NotificationHandler struct {
	notifications Notifications
	log           *zap.Logger
}

func NewNotificationHandler(n Notifications, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: n, log: log}
}

// List отдает уведомления пользователя; так забираются те, что пришли офлайн
func (h *NotificationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	unread := c.Query("unread") == "true"

	items, err := h.notifications.List(c.Request.Context(), middleware.UserID(c), limit, unread)
	if err != nil {
		internalError(c, h.log, "failed to list notifications", err)
		return
	}
	if items == nil {
		items = []models.Notification{}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	n, err := h.notifications.UnreadCount(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		internalError(c, h.log, "failed to count notifications", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	err := h.notifications.MarkRead(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if errors.Is(err, notify.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		internalError(c, h.log, "failed to mark notification", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	n, err := h.notifications.MarkAllRead(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		internalError(c, h.log, "failed to mark notifications", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}
