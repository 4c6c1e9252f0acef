package request

// CreatePostRequest is the multipart form of POST /post; attachments
// travel as form files.
type CreatePostRequest struct {
	Content string `form:"content" binding:"required"`
}
