package repository

import (
	"openbook_server/internal/model"

	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(n *model.Notification) error {
	if err := r.db.Create(n).Error; err != nil {
		return wrapDBErrorf(err, "create notification for %s", n.RecipientId)
	}
	return nil
}

func (r *notificationRepository) FindByRecipient(recipientId string, offset, limit int) ([]model.Notification, error) {
	var list []model.Notification
	err := r.db.
		Where("recipient_id = ?", recipientId).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "list notifications for %s", recipientId)
	}
	return list, nil
}

// MarkRead is idempotent: a second call on the same id matches the row
// (now already read) and succeeds without changing anything.
func (r *notificationRepository) MarkRead(uuid int64) (bool, error) {
	res := r.db.Model(&model.Notification{}).Where("uuid = ?", uuid).Update("read", true)
	if res.Error != nil {
		return false, wrapDBErrorf(res.Error, "mark notification %d read", uuid)
	}
	if res.RowsAffected == 0 {
		// gorm skips no-op updates, so distinguish "unknown id" from
		// "already read" with a lookup.
		var count int64
		if err := r.db.Model(&model.Notification{}).Where("uuid = ?", uuid).Count(&count).Error; err != nil {
			return false, wrapDBErrorf(err, "mark notification %d read", uuid)
		}
		return count > 0, nil
	}
	return true, nil
}

func (r *notificationRepository) CountUnread(recipientId string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("recipient_id = ? AND `read` = ?", recipientId, false).
		Count(&count).Error
	if err != nil {
		return 0, wrapDBErrorf(err, "count unread notifications for %s", recipientId)
	}
	return count, nil
}
