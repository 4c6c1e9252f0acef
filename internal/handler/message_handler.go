package handler

import (
	"net/http"

	"openbook_server/internal/dto/request"
	"openbook_server/internal/infrastructure/middleware"
	"openbook_server/internal/service"

	"github.com/gin-gonic/gin"
)

// SendMessage handles POST /message: multipart form with recipientId,
// optional content and an optional file attachment.
func SendMessage(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBind(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	fileId, err := storeFormFile(c, "file")
	if err != nil {
		HandleError(c, err)
		return
	}
	out, err := service.Svc.Message.Send(middleware.UserId(c), req.RecipientId, req.Content, fileId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusCreated, out)
}

// Conversation handles GET /message/conversation/:userId. Fetching a
// conversation marks the counterpart's messages in it as read.
func Conversation(c *gin.Context) {
	offset, limit := pageOf(c)
	out, err := service.Svc.Message.Conversation(middleware.UserId(c), c.Param("userId"), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, out)
}

// Chats handles GET /message/chats: one summary row per counterpart,
// most recent activity first, paginated.
func Chats(c *gin.Context) {
	offset, limit := pageOf(c)
	out, err := service.Svc.Message.Chats(middleware.UserId(c), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, out)
}

// UnreadMessageCount handles GET /message/unread.
func UnreadMessageCount(c *gin.Context) {
	count, err := service.Svc.Message.UnreadCount(middleware.UserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, gin.H{"count": count})
}
