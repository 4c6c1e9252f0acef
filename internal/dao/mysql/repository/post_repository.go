package repository

import (
	"openbook_server/internal/model"

	"gorm.io/gorm"
)

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(p *model.Post) error {
	if err := r.db.Create(p).Error; err != nil {
		return wrapDBErrorf(err, "create post by %s", p.AuthorId)
	}
	return nil
}

func (r *postRepository) CreateFiles(files []model.PostFile) error {
	if len(files) == 0 {
		return nil
	}
	if err := r.db.Create(&files).Error; err != nil {
		return wrapDBError(err, "create post files")
	}
	return nil
}

func (r *postRepository) FindByUuid(uuid int64) (*model.Post, error) {
	var post model.Post
	if err := r.db.Where("uuid = ?", uuid).First(&post).Error; err != nil {
		return nil, wrapDBErrorf(err, "find post %d", uuid)
	}
	return &post, nil
}

func (r *postRepository) FindByAuthors(authorIds []string, offset, limit int) ([]model.Post, error) {
	if len(authorIds) == 0 {
		return []model.Post{}, nil
	}
	var posts []model.Post
	err := r.db.
		Where("author_id IN ?", authorIds).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, wrapDBError(err, "find posts by authors")
	}
	return posts, nil
}

func (r *postRepository) Delete(uuid int64) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("post_uuid = ?", uuid).Delete(&model.PostFile{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("post_uuid = ?", uuid).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("post_uuid = ?", uuid).Delete(&model.PostComment{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("uuid = ?", uuid).Delete(&model.Post{}).Error
	})
	return wrapDBErrorf(err, "delete post %d", uuid)
}

func (r *postRepository) FilesOf(postUuid int64) ([]model.PostFile, error) {
	var files []model.PostFile
	if err := r.db.Where("post_uuid = ?", postUuid).Find(&files).Error; err != nil {
		return nil, wrapDBErrorf(err, "find files of post %d", postUuid)
	}
	return files, nil
}

func (r *postRepository) FindLike(postUuid int64, userId string) (*model.PostLike, error) {
	var like model.PostLike
	if err := r.db.Where("post_uuid = ? AND liked_by_id = ?", postUuid, userId).First(&like).Error; err != nil {
		return nil, wrapDBErrorf(err, "find like on %d by %s", postUuid, userId)
	}
	return &like, nil
}

func (r *postRepository) CreateLike(l *model.PostLike) error {
	if err := r.db.Create(l).Error; err != nil {
		return wrapDBErrorf(err, "create like on %d by %s", l.PostUuid, l.LikedById)
	}
	return nil
}

func (r *postRepository) DeleteLike(postUuid int64, userId string) error {
	err := r.db.Unscoped().
		Where("post_uuid = ? AND liked_by_id = ?", postUuid, userId).
		Delete(&model.PostLike{}).Error
	if err != nil {
		return wrapDBErrorf(err, "delete like on %d by %s", postUuid, userId)
	}
	return nil
}

func (r *postRepository) CountLikes(postUuid int64) (int64, error) {
	var count int64
	if err := r.db.Model(&model.PostLike{}).Where("post_uuid = ?", postUuid).Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "count likes of %d", postUuid)
	}
	return count, nil
}

func (r *postRepository) CreateComment(c *model.PostComment) error {
	if err := r.db.Create(c).Error; err != nil {
		return wrapDBErrorf(err, "create comment on %d by %s", c.PostUuid, c.AuthorId)
	}
	return nil
}

func (r *postRepository) FindCommentByUuid(uuid int64) (*model.PostComment, error) {
	var comment model.PostComment
	if err := r.db.Where("uuid = ?", uuid).First(&comment).Error; err != nil {
		return nil, wrapDBErrorf(err, "find comment %d", uuid)
	}
	return &comment, nil
}

func (r *postRepository) DeleteComment(uuid int64) error {
	if err := r.db.Unscoped().Where("uuid = ?", uuid).Delete(&model.PostComment{}).Error; err != nil {
		return wrapDBErrorf(err, "delete comment %d", uuid)
	}
	return nil
}

func (r *postRepository) FindCommentsByPost(postUuid int64, offset, limit int) ([]model.PostComment, error) {
	var comments []model.PostComment
	err := r.db.
		Where("post_uuid = ?", postUuid).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "find comments of %d", postUuid)
	}
	return comments, nil
}

func (r *postRepository) CountComments(postUuid int64) (int64, error) {
	var count int64
	if err := r.db.Model(&model.PostComment{}).Where("post_uuid = ?", postUuid).Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "count comments of %d", postUuid)
	}
	return count, nil
}
