package respond

import "time"

// AuthorRespond is the embedded author identity of posts and comments.
type AuthorRespond struct {
	UserId       string `json:"userId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ProfileImage string `json:"profileImage"`
}

// PostRespond is one post with its denormalized counters and the
// viewer's like state.
type PostRespond struct {
	Id       string        `json:"id"`
	Author   AuthorRespond `json:"author"`
	Content  string        `json:"content"`
	Files    []string      `json:"files"`
	Likes    int64         `json:"likes"`
	Comments int64         `json:"comments"`
	Liked    bool          `json:"liked"`
	PostedAt time.Time     `json:"postedAt"`
}
