package handler

import (
	"net/http"
	"strconv"

	"openbook_server/internal/infrastructure/middleware"
	"openbook_server/internal/service"
	"openbook_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// Notifications handles GET /notification, newest first, paginated.
func Notifications(c *gin.Context) {
	offset, limit := pageOf(c)
	out, err := service.Svc.Notification.List(middleware.UserId(c), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, out)
}

// MarkNotificationRead handles PATCH /notification/read/:id. Marking an
// already-read notification succeeds without effect.
func MarkNotificationRead(c *gin.Context) {
	uuid, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		HandleError(c, errorx.New(errorx.CodeInvalidParam, "invalid notification id"))
		return
	}
	found, err := service.Svc.Notification.MarkRead(uuid)
	if err != nil {
		HandleError(c, err)
		return
	}
	if !found {
		HandleError(c, errorx.New(errorx.CodeNotFound, "notification not found"))
		return
	}
	HandleSuccess(c, http.StatusOK, nil)
}

// UnreadNotificationCount handles GET /notification/unread.
func UnreadNotificationCount(c *gin.Context) {
	count, err := service.Svc.Notification.UnreadCount(middleware.UserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, gin.H{"count": count})
}
