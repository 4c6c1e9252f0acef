package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// Friendship is the single directed edge representing a pending or
// accepted relationship between two users. At most one edge may exist
// for any unordered pair: PairKey is the canonical direction-free key
// and carries a unique index, so two actors racing to create (A,B) and
// (B,A) serialize on the database and the loser sees a duplicate-key
// error instead of writing a second edge.
type Friendship struct {
	gorm.Model
	RequestedBy string       `gorm:"column:requested_by;index;type:char(20);not null"`
	AcceptedBy  string       `gorm:"column:accepted_by;index;type:char(20);not null"`
	PairKey     string       `gorm:"column:pair_key;uniqueIndex;type:char(41);not null"`
	AcceptedAt  sql.NullTime `gorm:"column:accepted_at"`
}

func (Friendship) TableName() string {
	return "friendship"
}

// Accepted reports whether the edge represents an established
// friendship rather than a pending request.
func (f *Friendship) Accepted() bool {
	return f.AcceptedAt.Valid
}

// PairKeyOf builds the canonical unordered-pair key for two user ids.
func PairKeyOf(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}

// FriendshipStatus is the relationship between a viewer and a subject
// as derived from the (possibly missing) edge between them.
type FriendshipStatus string

const (
	StatusStranger  FriendshipStatus = "stranger"
	StatusRequested FriendshipStatus = "requested" // viewer sent the pending request
	StatusReceived  FriendshipStatus = "received"  // subject sent the pending request
	StatusFriend    FriendshipStatus = "friend"
)
