// Package notification is the read side of the notification feed.
// Creation goes exclusively through the notify dispatcher.
package notification

import (
	"encoding/json"
	"strconv"

	"openbook_server/internal/dao/mysql/repository"
	"openbook_server/internal/dto/respond"
)

type Service struct {
	repos *repository.Repositories
}

func NewService(repos *repository.Repositories) *Service {
	return &Service{repos: repos}
}

// List returns the recipient's notifications newest-first.
func (s *Service) List(recipientId string, offset, limit int) ([]respond.NotificationRespond, error) {
	rows, err := s.repos.Notification.FindByRecipient(recipientId, offset, limit)
	if err != nil {
		return nil, err
	}
	out := make([]respond.NotificationRespond, 0, len(rows))
	for _, n := range rows {
		out = append(out, respond.NotificationRespond{
			Id:        strconv.FormatInt(n.Uuid, 10),
			Type:      string(n.Type),
			Payload:   json.RawMessage(n.Payload),
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return out, nil
}

// MarkRead flips one notification to read. Repeat calls are no-op
// successes; an unknown id reports found=false.
func (s *Service) MarkRead(uuid int64) (bool, error) {
	return s.repos.Notification.MarkRead(uuid)
}

func (s *Service) UnreadCount(recipientId string) (int64, error) {
	return s.repos.Notification.CountUnread(recipientId)
}
