package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/dsaquest-backend/internal/http/response"
	"github.com/yungbote/dsaquest-backend/internal/platform/apierr"
	"github.com/yungbote/dsaquest-backend/internal/services"
)

type NotificationHandler struct {
	notifications services.NotificationService
}

func NewNotificationHandler(notifications services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// GET /api/me/notifications?unread=true&limit=N
func (h *NotificationHandler) ListMine(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	unread, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := h.notifications.List(c.Request.Context(), userID, unread, limit)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"notifications": rows})
}

// POST /api/me/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondErr(c, fmt.Errorf("invalid notification id: %w", apierr.ErrInvalidArgument))
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), userID, id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
