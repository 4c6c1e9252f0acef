// Package message owns the direct-message log and the chat overview
// read model derived from it.
package message

import (
	"sort"
	"strconv"
	"time"

	"openbook_server/internal/dao/mysql/repository"
	"openbook_server/internal/dto/respond"
	"openbook_server/internal/infrastructure/filestore"
	"openbook_server/internal/model"
	"openbook_server/internal/service/notify"
	"openbook_server/pkg/constants"
	"openbook_server/pkg/errorx"
	"openbook_server/pkg/util/snowflake"
)

type Service struct {
	repos      *repository.Repositories
	dispatcher *notify.Dispatcher
	files      filestore.Store
}

func NewService(repos *repository.Repositories, dispatcher *notify.Dispatcher, files filestore.Store) *Service {
	return &Service{repos: repos, dispatcher: dispatcher, files: files}
}

// Send appends a message to the log and pushes a NEW_MESSAGE event at
// the recipient's live session. Messaging is friends-only, and a
// message must carry content, a file, or both.
func (s *Service) Send(senderId, recipientId, content, fileId string) (*respond.MessageRespond, error) {
	if content == "" && fileId == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "message needs content or a file")
	}

	edge, err := s.repos.Friendship.FindByPair(senderId, recipientId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeForbidden, "recipient is not a friend")
		}
		return nil, err
	}
	if !edge.Accepted() {
		return nil, errorx.New(errorx.CodeForbidden, "recipient is not a friend")
	}

	m := &model.Message{
		Uuid:        snowflake.GenerateID(),
		SenderId:    senderId,
		RecipientId: recipientId,
		Content:     content,
		FileId:      fileId,
		SentAt:      time.Now(),
	}
	if err := s.repos.Message.Create(m); err != nil {
		return nil, err
	}

	out := s.toRespond(m)
	s.dispatcher.PushEvent(recipientId, constants.EventNewMessage, out)
	return out, nil
}

// Conversation returns the message page between userId and otherId,
// newest-first, after marking everything otherId sent as read. Opening
// a conversation is what consumes its unread state.
func (s *Service) Conversation(userId, otherId string, offset, limit int) ([]respond.MessageRespond, error) {
	if err := s.repos.Message.MarkConversationRead(otherId, userId); err != nil {
		return nil, err
	}
	rows, err := s.repos.Message.FindConversation(userId, otherId, offset, limit)
	if err != nil {
		return nil, err
	}
	out := make([]respond.MessageRespond, 0, len(rows))
	for i := range rows {
		if rows[i].SenderId == otherId {
			rows[i].Read = true
		}
		out = append(out, *s.toRespond(&rows[i]))
	}
	return out, nil
}

// Chats builds the conversation overview for userId: one row per
// counterpart, carrying the latest message as a preview. Rows are
// ordered by that message's time, newest first, then windowed by
// offset/limit.
func (s *Service) Chats(userId string, offset, limit int) ([]respond.ChatSummaryRespond, error) {
	msgs, err := s.repos.Message.FindByParticipant(userId)
	if err != nil {
		return nil, err
	}

	// Latest message per counterpart. Equal timestamps resolve to the
	// later insert (larger id) so the preview is deterministic.
	latest := make(map[string]*model.Message)
	for i := range msgs {
		m := &msgs[i]
		other := m.SenderId
		if other == userId {
			other = m.RecipientId
		}
		cur, ok := latest[other]
		if !ok || m.SentAt.After(cur.SentAt) || (m.SentAt.Equal(cur.SentAt) && m.Uuid > cur.Uuid) {
			latest[other] = m
		}
	}
	if len(latest) == 0 {
		return []respond.ChatSummaryRespond{}, nil
	}

	counterparts := make([]string, 0, len(latest))
	for id := range latest {
		counterparts = append(counterparts, id)
	}
	users, err := s.repos.User.FindByUuids(counterparts)
	if err != nil {
		return nil, err
	}
	profiles := make(map[string]*model.UserInfo, len(users))
	for i := range users {
		profiles[users[i].Uuid] = &users[i]
	}

	out := make([]respond.ChatSummaryRespond, 0, len(latest))
	for other, m := range latest {
		u, ok := profiles[other]
		if !ok {
			// Counterpart account gone; the log row outlived it.
			continue
		}
		out = append(out, respond.ChatSummaryRespond{
			FriendId:       other,
			FirstName:      u.FirstName,
			LastName:       u.LastName,
			ProfileImage:   s.files.URLOf(u.Avatar),
			Preview:        previewOf(m, userId),
			LastActivityAt: m.SentAt,
			Attention:      m.SenderId == other && !m.Read,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastActivityAt.Equal(out[j].LastActivityAt) {
			return out[i].LastActivityAt.After(out[j].LastActivityAt)
		}
		return out[i].FriendId < out[j].FriendId
	})
	if offset >= len(out) {
		return []respond.ChatSummaryRespond{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *Service) UnreadCount(userId string) (int64, error) {
	return s.repos.Message.CountUnread(userId)
}

// previewOf renders a message as a one-line summary. File-only
// messages show an attachment marker; the viewer's own messages get a
// "You: " prefix.
func previewOf(m *model.Message, viewerId string) string {
	text := m.Content
	if text == "" {
		text = constants.AttachmentPreview
	}
	if m.SenderId == viewerId {
		return constants.SelfPreviewPrefix + text
	}
	return text
}

func (s *Service) toRespond(m *model.Message) *respond.MessageRespond {
	out := &respond.MessageRespond{
		Id:          strconv.FormatInt(m.Uuid, 10),
		SenderId:    m.SenderId,
		RecipientId: m.RecipientId,
		Content:     m.Content,
		SentAt:      m.SentAt,
		Read:        m.Read,
	}
	if m.FileId != "" {
		out.FileURL = s.files.URLOf(m.FileId)
	}
	return out
}
