package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CTU-F-2025/forum-service/internal/services"
	"github.com/CTU-F-2025/forum-service/internal/utils"
)

type NotificationHandler struct {
	BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService, logger utils.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         NewBaseHandler(logger),
		notificationService: notificationService,
	}
}

// ListNotifications returns the caller's notifications newest-first.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	views, err := h.notificationService.ListForUser(c.Request.Context(), identity.UserID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// MarkRead marks one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), id, identity.UserID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "is_read": true})
}
