// Package notify composes durable notification writes with best-effort
// live pushes through the presence registry.
package notify

import (
	"context"
	"encoding/json"

	"openbook_server/internal/dao/mysql/repository"
	"openbook_server/internal/model"
	"openbook_server/internal/service/presence"
	"openbook_server/pkg/constants"
	"openbook_server/pkg/errorx"
	"openbook_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

// ActorPayload is the denormalized snapshot stored inside a
// notification: who acted and, where relevant, on what. Captured at
// creation time and never updated afterwards.
type ActorPayload struct {
	UserId       string `json:"userId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ProfileImage string `json:"profileImage"`
	PostId       string `json:"postId,omitempty"`
	Content      string `json:"content,omitempty"`
}

// Dispatcher is the only writer of notification records. It persists
// the durable record first, then pushes a NEW_NOTIFICATION event to
// the recipient's live connection if one exists. The push runs outside
// the request path and its failure is logged, never propagated.
type Dispatcher struct {
	notifications repository.NotificationRepository
	registry      presence.Registry
	pool          *TaskPool
}

func NewDispatcher(notifications repository.NotificationRepository, registry presence.Registry, pool *TaskPool) *Dispatcher {
	return &Dispatcher{notifications: notifications, registry: registry, pool: pool}
}

// NotifyAndPush persists the notification and schedules the live push.
// The durable write error propagates to the caller; the triggering
// business write is already committed and stays committed.
func (d *Dispatcher) NotifyAndPush(recipientId string, typ model.NotificationType, payload ActorPayload) (*model.Notification, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeServerBusy, "marshal notification payload")
	}

	n := &model.Notification{
		Uuid:        snowflake.GenerateID(),
		RecipientId: recipientId,
		Type:        typ,
		Payload:     string(raw),
	}
	if err := d.notifications.Create(n); err != nil {
		return nil, err
	}

	d.pool.Submit(func() { d.push(recipientId) })
	return n, nil
}

// NotifyAsync runs the whole write-then-push on the task pool. Used by
// the post fan-out, where one action produces O(friend count)
// notifications and none of them may block or fail the request.
func (d *Dispatcher) NotifyAsync(recipientId string, typ model.NotificationType, payload ActorPayload) {
	d.pool.Submit(func() {
		if _, err := d.NotifyAndPush(recipientId, typ, payload); err != nil {
			zap.L().Error("async notification failed",
				zap.String("recipientId", recipientId),
				zap.String("type", string(typ)),
				zap.Error(err),
			)
		}
	})
}

// PushEvent delivers a bare live event with no notification record.
// Direct messages use this: they have their own durable log.
func (d *Dispatcher) PushEvent(recipientId, event string, payload any) {
	d.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.DELIVER_TIMEOUT)
		defer cancel()
		result, err := d.registry.Deliver(ctx, recipientId, event, payload)
		if err != nil {
			zap.L().Warn("live push failed",
				zap.String("recipientId", recipientId),
				zap.String("event", event),
				zap.Error(err),
			)
			return
		}
		if result == presence.NoActiveSession {
			zap.L().Debug("no active session for live push",
				zap.String("recipientId", recipientId),
				zap.String("event", event),
			)
		}
	})
}

func (d *Dispatcher) push(recipientId string) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DELIVER_TIMEOUT)
	defer cancel()
	if _, err := d.registry.Deliver(ctx, recipientId, constants.EventNewNotification, nil); err != nil {
		zap.L().Warn("notification push failed",
			zap.String("recipientId", recipientId),
			zap.Error(err),
		)
	}
}
