// Package repository is the data access layer. Interfaces live here,
// implementations in the per-entity files; services depend on the
// interfaces only.
package repository

import (
	"errors"
	"time"

	"openbook_server/internal/model"
	"openbook_server/pkg/errorx"

	"gorm.io/gorm"
)

// wrapDBError tags record-not-found with CodeNotFound and everything
// else with CodeDBError, preserving the cause for errors.Is checks
// (gorm.ErrDuplicatedKey in particular).
func wrapDBError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrap(err, errorx.CodeNotFound, msg)
	}
	return errorx.Wrap(err, errorx.CodeDBError, msg)
}

func wrapDBErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrapf(err, errorx.CodeNotFound, format, args...)
	}
	return errorx.Wrapf(err, errorx.CodeDBError, format, args...)
}

// FriendshipRepository owns the friendship edge table. All lookups are
// symmetric: the direction of the stored edge never matters to callers
// except through the returned record itself.
type FriendshipRepository interface {
	// FindByPair finds the single edge between two users regardless of
	// direction. Returns CodeNotFound when no edge exists.
	FindByPair(a, b string) (*model.Friendship, error)
	// Create inserts a new pending edge. The unique pair-key index makes
	// concurrent reciprocal inserts fail with gorm.ErrDuplicatedKey.
	Create(f *model.Friendship) error
	// Accept sets accepted_at on a pending edge.
	Accept(id uint, at time.Time) error
	// Delete removes the edge unconditionally.
	Delete(f *model.Friendship) error
	// FindAcceptedOf returns all accepted edges touching userId.
	FindAcceptedOf(userId string) ([]model.Friendship, error)
}

// NotificationRepository owns durable notification records.
type NotificationRepository interface {
	Create(n *model.Notification) error
	// FindByRecipient returns notifications newest-first.
	FindByRecipient(recipientId string, offset, limit int) ([]model.Notification, error)
	// MarkRead flips read to true. Returns false when the id is unknown;
	// marking an already-read notification is a no-op success.
	MarkRead(uuid int64) (bool, error)
	CountUnread(recipientId string) (int64, error)
}

// MessageRepository owns the flat direct-message log.
type MessageRepository interface {
	Create(m *model.Message) error
	// FindConversation returns messages between two users newest-first.
	FindConversation(userId, otherId string, offset, limit int) ([]model.Message, error)
	// MarkConversationRead marks everything senderId sent to recipientId
	// as read.
	MarkConversationRead(senderId, recipientId string) error
	// FindByParticipant returns every message userId sent or received.
	// Input of the chat summarizer.
	FindByParticipant(userId string) ([]model.Message, error)
	CountUnread(recipientId string) (int64, error)
}

// PostRepository owns posts, their attachments, likes and comments.
type PostRepository interface {
	Create(p *model.Post) error
	CreateFiles(files []model.PostFile) error
	FindByUuid(uuid int64) (*model.Post, error)
	// FindByAuthors returns posts by any of authorIds newest-first.
	FindByAuthors(authorIds []string, offset, limit int) ([]model.Post, error)
	Delete(uuid int64) error
	FilesOf(postUuid int64) ([]model.PostFile, error)

	FindLike(postUuid int64, userId string) (*model.PostLike, error)
	CreateLike(l *model.PostLike) error
	DeleteLike(postUuid int64, userId string) error
	CountLikes(postUuid int64) (int64, error)

	CreateComment(c *model.PostComment) error
	FindCommentByUuid(uuid int64) (*model.PostComment, error)
	DeleteComment(uuid int64) error
	FindCommentsByPost(postUuid int64, offset, limit int) ([]model.PostComment, error)
	CountComments(postUuid int64) (int64, error)
}

// UserRepository reads account profiles. Account lifecycle is managed
// by the external auth service.
type UserRepository interface {
	FindByUuid(uuid string) (*model.UserInfo, error)
	FindByUuids(uuids []string) ([]model.UserInfo, error)
	Create(u *model.UserInfo) error
}

// Repositories aggregates all repository instances as the dependency
// injection entry point for the service layer.
type Repositories struct {
	db           *gorm.DB
	Friendship   FriendshipRepository
	Notification NotificationRepository
	Message      MessageRepository
	Post         PostRepository
	User         UserRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:           db,
		Friendship:   NewFriendshipRepository(db),
		Notification: NewNotificationRepository(db),
		Message:      NewMessageRepository(db),
		Post:         NewPostRepository(db),
		User:         NewUserRepository(db),
	}
}

// Transaction runs fn against transactional repositories; any error
// rolls everything back.
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
