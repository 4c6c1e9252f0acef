package model

import (
	"gorm.io/gorm"
)

// PostComment is a comment on a post, optionally carrying a file.
type PostComment struct {
	gorm.Model
	Uuid     int64  `gorm:"column:uuid;uniqueIndex;type:bigint;not null"`
	PostUuid int64  `gorm:"column:post_uuid;index;type:bigint;not null"`
	AuthorId string `gorm:"column:author_id;index;type:char(20);not null"`
	Content  string `gorm:"column:content;type:TEXT"`
	FileId   string `gorm:"column:file_id;type:varchar(64)"`
}

func (PostComment) TableName() string {
	return "post_comment"
}
