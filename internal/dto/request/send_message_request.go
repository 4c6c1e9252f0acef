package request

// SendMessageRequest is the multipart form of POST /message. The
// optional file attachment travels alongside as a form file.
type SendMessageRequest struct {
	RecipientId string `form:"recipientId" binding:"required"`
	Content     string `form:"content"`
}
