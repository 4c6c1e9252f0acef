package repository

import (
	"openbook_server/internal/model"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(m *model.Message) error {
	if err := r.db.Create(m).Error; err != nil {
		return wrapDBErrorf(err, "create message %s -> %s", m.SenderId, m.RecipientId)
	}
	return nil
}

func (r *messageRepository) FindConversation(userId, otherId string, offset, limit int) ([]model.Message, error) {
	var list []model.Message
	err := r.db.
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userId, otherId, otherId, userId).
		Order("sent_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "find conversation %s/%s", userId, otherId)
	}
	return list, nil
}

func (r *messageRepository) MarkConversationRead(senderId, recipientId string) error {
	err := r.db.Model(&model.Message{}).
		Where("sender_id = ? AND recipient_id = ?", senderId, recipientId).
		Update("read", true).Error
	if err != nil {
		return wrapDBErrorf(err, "mark conversation %s -> %s read", senderId, recipientId)
	}
	return nil
}

func (r *messageRepository) FindByParticipant(userId string) ([]model.Message, error) {
	var list []model.Message
	err := r.db.
		Where("sender_id = ? OR recipient_id = ?", userId, userId).
		Find(&list).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "find messages of %s", userId)
	}
	return list, nil
}

func (r *messageRepository) CountUnread(recipientId string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Message{}).
		Where("recipient_id = ? AND `read` = ?", recipientId, false).
		Count(&count).Error
	if err != nil {
		return 0, wrapDBErrorf(err, "count unread messages for %s", recipientId)
	}
	return count, nil
}
