package model

import (
	"gorm.io/gorm"
)

// PostLike marks that a user likes a post. One row per (post, user),
// enforced by the composite unique index; the like endpoint toggles
// the row on and off.
type PostLike struct {
	gorm.Model
	PostUuid  int64  `gorm:"column:post_uuid;uniqueIndex:idx_post_liker;type:bigint;not null"`
	LikedById string `gorm:"column:liked_by_id;uniqueIndex:idx_post_liker;type:char(20);not null"`
}

func (PostLike) TableName() string {
	return "post_like"
}
