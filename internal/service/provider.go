// Package service wires the per-domain services together and exposes
// them to the handler layer through the Svc aggregate.
package service

import (
	"openbook_server/internal/dao/mysql/repository"
	"openbook_server/internal/infrastructure/filestore"
	"openbook_server/internal/service/friendship"
	"openbook_server/internal/service/message"
	"openbook_server/internal/service/notification"
	"openbook_server/internal/service/notify"
	"openbook_server/internal/service/post"
)

// Services aggregates the domain services behind one handle.
type Services struct {
	Friendship   *friendship.Service
	Notification *notification.Service
	Message      *message.Service
	Post         *post.Service
}

// Svc is the process-wide service aggregate, set once at startup.
var Svc *Services

func NewServices(repos *repository.Repositories, dispatcher *notify.Dispatcher, files filestore.Store) *Services {
	friendshipSvc := friendship.NewService(repos, dispatcher, files)
	return &Services{
		Friendship:   friendshipSvc,
		Notification: notification.NewService(repos),
		Message:      message.NewService(repos, dispatcher, files),
		Post:         post.NewService(repos, dispatcher, files, friendshipSvc),
	}
}

// InitServices builds the aggregate and installs it as Svc.
func InitServices(repos *repository.Repositories, dispatcher *notify.Dispatcher, files filestore.Store) *Services {
	Svc = NewServices(repos, dispatcher, files)
	return Svc
}
