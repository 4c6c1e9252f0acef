package respond

import "time"

// CommentRespond is one comment in a post's comment listing.
type CommentRespond struct {
	Id          string        `json:"id"`
	PostId      string        `json:"postId"`
	Author      AuthorRespond `json:"author"`
	Content     string        `json:"content,omitempty"`
	FileURL     string        `json:"fileUrl,omitempty"`
	CommentedAt time.Time     `json:"commentedAt"`
}
