package model

import (
	"gorm.io/gorm"
)

// NotificationType enumerates the product notification kinds.
type NotificationType string

const (
	NotificationFriendRequest         NotificationType = "FRIEND_REQUEST"
	NotificationFriendRequestAccepted NotificationType = "FRIEND_REQUEST_ACCEPTED"
	NotificationFriendPosted          NotificationType = "FRIEND_POSTED"
	NotificationPostLiked             NotificationType = "POST_LIKED"
	NotificationPostCommented         NotificationType = "POST_COMMENTED"
)

// Notification is a durable per-recipient record created only by the
// event dispatcher. Payload is a denormalized JSON snapshot (actor
// identity plus related entity id) captured at creation time and never
// kept in sync with later edits. Only the Read flag ever changes, and
// only false -> true.
type Notification struct {
	gorm.Model
	Uuid        int64            `gorm:"column:uuid;uniqueIndex;type:bigint;not null"`
	RecipientId string           `gorm:"column:recipient_id;index;type:char(20);not null"`
	Type        NotificationType `gorm:"column:type;type:varchar(32);not null"`
	Payload     string           `gorm:"column:payload;type:TEXT"`
	Read        bool             `gorm:"column:read;not null;default:false"`
}

func (Notification) TableName() string {
	return "notification"
}
