package model

import (
	"gorm.io/gorm"
)

// Post is authored content shown in friends' feeds.
type Post struct {
	gorm.Model
	Uuid     int64  `gorm:"column:uuid;uniqueIndex;type:bigint;not null"`
	AuthorId string `gorm:"column:author_id;index;type:char(20);not null"`
	Content  string `gorm:"column:content;type:TEXT"`
}

func (Post) TableName() string {
	return "post"
}

// PostFile is one attachment of a post, stored as a file id in the
// content-addressed store.
type PostFile struct {
	gorm.Model
	PostUuid int64  `gorm:"column:post_uuid;index;type:bigint;not null"`
	FileId   string `gorm:"column:file_id;type:varchar(64);not null"`
}

func (PostFile) TableName() string {
	return "post_file"
}
