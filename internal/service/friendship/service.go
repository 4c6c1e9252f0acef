// Package friendship implements the relationship state machine over
// the friendship edge store, with the notification side effects the
// product expects.
package friendship

import (
	"errors"
	"time"

	"openbook_server/internal/dao/mysql/repository"
	"openbook_server/internal/dto/respond"
	"openbook_server/internal/infrastructure/filestore"
	"openbook_server/internal/model"
	"openbook_server/internal/service/notify"
	"openbook_server/pkg/errorx"

	"gorm.io/gorm"
)

// Outcome is the result of a relationship transition.
type Outcome int

const (
	OutcomeCreated Outcome = iota // new pending request inserted
	OutcomeAccepted
	OutcomeAlreadyFriends
	OutcomeAlreadyRequested
	OutcomeRemoved
	OutcomeNotFound
)

type Service struct {
	repos      *repository.Repositories
	dispatcher *notify.Dispatcher
	files      filestore.Store
}

func NewService(repos *repository.Repositories, dispatcher *notify.Dispatcher, files filestore.Store) *Service {
	return &Service{repos: repos, dispatcher: dispatcher, files: files}
}

// AddOrAccept runs one transition of the state machine for actor
// toward target:
//
//	no edge                      -> insert pending, Created
//	edge accepted                -> AlreadyFriends, no mutation
//	pending, actor requested it  -> AlreadyRequested, no mutation
//	pending, target requested it -> set acceptedAt, Accepted
//
// Two actors racing to create reciprocal edges serialize on the unique
// pair-key index: the loser's insert fails with a duplicate key and is
// reported as AlreadyRequested/AlreadyFriends, never as a second edge.
func (s *Service) AddOrAccept(actor, target string) (Outcome, error) {
	edge, err := s.repos.Friendship.FindByPair(actor, target)
	if err != nil {
		if !errorx.IsNotFound(err) {
			return OutcomeNotFound, err
		}
		return s.create(actor, target)
	}

	if edge.Accepted() {
		return OutcomeAlreadyFriends, nil
	}
	if edge.RequestedBy == actor {
		return OutcomeAlreadyRequested, nil
	}

	// Target requested first: this call accepts.
	if err := s.repos.Friendship.Accept(edge.ID, time.Now()); err != nil {
		return OutcomeNotFound, err
	}
	// The acceptance notifies the original requester, not the acceptor.
	if err := s.notifyActor(edge.RequestedBy, actor, model.NotificationFriendRequestAccepted); err != nil {
		return OutcomeAccepted, err
	}
	return OutcomeAccepted, nil
}

func (s *Service) create(actor, target string) (Outcome, error) {
	err := s.repos.Friendship.Create(&model.Friendship{RequestedBy: actor, AcceptedBy: target})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the reciprocal-insert race. Re-read and report the
			// edge that won instead of creating a duplicate.
			edge, findErr := s.repos.Friendship.FindByPair(actor, target)
			if findErr != nil {
				return OutcomeNotFound, findErr
			}
			if edge.Accepted() {
				return OutcomeAlreadyFriends, nil
			}
			return OutcomeAlreadyRequested, nil
		}
		return OutcomeNotFound, err
	}

	if err := s.notifyActor(target, actor, model.NotificationFriendRequest); err != nil {
		return OutcomeCreated, err
	}
	return OutcomeCreated, nil
}

// Remove deletes the edge unconditionally and symmetrically: cancel,
// deny and unfriend are the same silent operation.
func (s *Service) Remove(actor, target string) (Outcome, error) {
	edge, err := s.repos.Friendship.FindByPair(actor, target)
	if err != nil {
		if errorx.IsNotFound(err) {
			return OutcomeNotFound, nil
		}
		return OutcomeNotFound, err
	}
	if err := s.repos.Friendship.Delete(edge); err != nil {
		return OutcomeNotFound, err
	}
	return OutcomeRemoved, nil
}

// StatusOf derives the viewer's relationship to subject from the edge
// between them.
func (s *Service) StatusOf(viewer, subject string) (model.FriendshipStatus, error) {
	edge, err := s.repos.Friendship.FindByPair(viewer, subject)
	if err != nil {
		if errorx.IsNotFound(err) {
			return model.StatusStranger, nil
		}
		return model.StatusStranger, err
	}
	switch {
	case edge.Accepted():
		return model.StatusFriend, nil
	case edge.RequestedBy == viewer:
		return model.StatusRequested, nil
	default:
		return model.StatusReceived, nil
	}
}

// FriendsOf returns the ids of everyone sharing an accepted edge with
// userId, regardless of who requested.
func (s *Service) FriendsOf(userId string) ([]string, error) {
	edges, err := s.repos.Friendship.FindAcceptedOf(userId)
	if err != nil {
		return nil, err
	}
	friends := make([]string, 0, len(edges))
	for _, edge := range edges {
		if edge.RequestedBy == userId {
			friends = append(friends, edge.AcceptedBy)
		} else {
			friends = append(friends, edge.RequestedBy)
		}
	}
	return friends, nil
}

// Friends returns the profiles of userId's accepted friends.
func (s *Service) Friends(userId string) ([]respond.AuthorRespond, error) {
	ids, err := s.FriendsOf(userId)
	if err != nil {
		return nil, err
	}
	users, err := s.repos.User.FindByUuids(ids)
	if err != nil {
		return nil, err
	}
	out := make([]respond.AuthorRespond, 0, len(users))
	for _, u := range users {
		out = append(out, respond.AuthorRespond{
			UserId:       u.Uuid,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			ProfileImage: s.files.URLOf(u.Avatar),
		})
	}
	return out, nil
}

// notifyActor dispatches a notification about actorId to recipientId,
// snapshotting the actor's identity into the payload.
func (s *Service) notifyActor(recipientId, actorId string, typ model.NotificationType) error {
	actor, err := s.repos.User.FindByUuid(actorId)
	if err != nil {
		return err
	}
	_, err = s.dispatcher.NotifyAndPush(recipientId, typ, notify.ActorPayload{
		UserId:       actor.Uuid,
		FirstName:    actor.FirstName,
		LastName:     actor.LastName,
		ProfileImage: s.files.URLOf(actor.Avatar),
	})
	return err
}
