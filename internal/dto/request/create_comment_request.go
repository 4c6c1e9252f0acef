package request

// CreateCommentRequest is the multipart form of POST /post/comment/:id.
// Content may be empty when a file is attached; the service rejects
// comments carrying neither.
type CreateCommentRequest struct {
	Content string `form:"content"`
}
