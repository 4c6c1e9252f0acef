package respond

import "time"

// MessageRespond is one direct message in a conversation listing.
type MessageRespond struct {
	Id          string    `json:"id"`
	SenderId    string    `json:"senderId"`
	RecipientId string    `json:"recipientId"`
	Content     string    `json:"content,omitempty"`
	FileURL     string    `json:"fileUrl,omitempty"`
	SentAt      time.Time `json:"sentAt"`
	Read        bool      `json:"read"`
}
