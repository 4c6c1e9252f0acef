package model

import (
	"gorm.io/gorm"
)

// UserInfo is the account profile. Registration, login and password
// handling live outside this service; rows here are consumed read-only
// to denormalize actor identity into notification payloads.
type UserInfo struct {
	gorm.Model
	Uuid      string `gorm:"column:uuid;uniqueIndex;type:char(20);not null"`
	FirstName string `gorm:"column:first_name;type:varchar(50);not null"`
	LastName  string `gorm:"column:last_name;type:varchar(50);not null"`
	Avatar    string `gorm:"column:avatar;type:varchar(255)"` // file id in the content-addressed store
}

func (UserInfo) TableName() string {
	return "user_info"
}
