package model

import (
	"time"

	"gorm.io/gorm"
)

// Message is one direct message in the flat log. The chat summarizer
// derives conversation summaries from this table; it never mutates it.
// At least one of Content/FileId is present, enforced by the message
// service rather than the store.
type Message struct {
	gorm.Model
	Uuid        int64     `gorm:"column:uuid;uniqueIndex;type:bigint;not null"`
	SenderId    string    `gorm:"column:sender_id;index;type:char(20);not null"`
	RecipientId string    `gorm:"column:recipient_id;index;type:char(20);not null"`
	Content     string    `gorm:"column:content;type:TEXT"`
	FileId      string    `gorm:"column:file_id;type:varchar(64)"`
	SentAt      time.Time `gorm:"column:sent_at;index;not null"`
	Read        bool      `gorm:"column:read;not null;default:false"`
}

func (Message) TableName() string {
	return "message"
}
