package repository

import (
	"time"

	"openbook_server/internal/model"

	"gorm.io/gorm"
)

type friendshipRepository struct {
	db *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

// FindByPair looks the edge up by its canonical pair key, so a single
// indexed query covers both directions.
func (r *friendshipRepository) FindByPair(a, b string) (*model.Friendship, error) {
	var edge model.Friendship
	if err := r.db.Where("pair_key = ?", model.PairKeyOf(a, b)).First(&edge).Error; err != nil {
		return nil, wrapDBErrorf(err, "find friendship %s/%s", a, b)
	}
	return &edge, nil
}

func (r *friendshipRepository) Create(f *model.Friendship) error {
	f.PairKey = model.PairKeyOf(f.RequestedBy, f.AcceptedBy)
	if err := r.db.Create(f).Error; err != nil {
		return wrapDBErrorf(err, "create friendship %s -> %s", f.RequestedBy, f.AcceptedBy)
	}
	return nil
}

func (r *friendshipRepository) Accept(id uint, at time.Time) error {
	if err := r.db.Model(&model.Friendship{}).Where("id = ?", id).Update("accepted_at", at).Error; err != nil {
		return wrapDBErrorf(err, "accept friendship id=%d", id)
	}
	return nil
}

func (r *friendshipRepository) Delete(f *model.Friendship) error {
	if err := r.db.Unscoped().Delete(f).Error; err != nil {
		return wrapDBErrorf(err, "delete friendship id=%d", f.ID)
	}
	return nil
}

func (r *friendshipRepository) FindAcceptedOf(userId string) ([]model.Friendship, error) {
	var edges []model.Friendship
	err := r.db.
		Where("(requested_by = ? OR accepted_by = ?) AND accepted_at IS NOT NULL", userId, userId).
		Find(&edges).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "find friends of %s", userId)
	}
	return edges, nil
}
