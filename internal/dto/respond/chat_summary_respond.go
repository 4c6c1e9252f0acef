package respond

import "time"

// ChatSummaryRespond is one row of the conversation overview: the most
// recent message exchanged with each counterpart. Attention is set
// when that message came from the counterpart and is still unread.
type ChatSummaryRespond struct {
	FriendId       string    `json:"friendId"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	ProfileImage   string    `json:"profileImage"`
	Preview        string    `json:"preview"`
	LastActivityAt time.Time `json:"lastActivityAt"`
	Attention      bool      `json:"attention"`
}
