// Package post owns authored content: posts, their attachments, likes
// and comments, plus the friend feed built over them.
package post

import (
	"strconv"

	"openbook_server/internal/dao/mysql/repository"
	"openbook_server/internal/dto/respond"
	"openbook_server/internal/infrastructure/filestore"
	"openbook_server/internal/model"
	"openbook_server/internal/service/notify"
	"openbook_server/pkg/errorx"
	"openbook_server/pkg/util/snowflake"
)

// FriendLister is the slice of the friendship service the feed and the
// fan-out need.
type FriendLister interface {
	FriendsOf(userId string) ([]string, error)
}

type Service struct {
	repos      *repository.Repositories
	dispatcher *notify.Dispatcher
	files      filestore.Store
	friends    FriendLister
}

func NewService(repos *repository.Repositories, dispatcher *notify.Dispatcher, files filestore.Store, friends FriendLister) *Service {
	return &Service{repos: repos, dispatcher: dispatcher, files: files, friends: friends}
}

// Create persists the post with its attachments and fans a
// FRIEND_POSTED notification out to every friend of the author. The
// fan-out is asynchronous; the response never waits for it.
func (s *Service) Create(authorId, content string, fileIds []string) (*respond.PostRespond, error) {
	p := &model.Post{
		Uuid:     snowflake.GenerateID(),
		AuthorId: authorId,
		Content:  content,
	}
	if err := s.repos.Post.Create(p); err != nil {
		return nil, err
	}
	if len(fileIds) > 0 {
		files := make([]model.PostFile, 0, len(fileIds))
		for _, id := range fileIds {
			files = append(files, model.PostFile{PostUuid: p.Uuid, FileId: id})
		}
		if err := s.repos.Post.CreateFiles(files); err != nil {
			return nil, err
		}
	}

	if author, err := s.repos.User.FindByUuid(authorId); err == nil {
		payload := s.actorPayload(author)
		payload.PostId = strconv.FormatInt(p.Uuid, 10)
		friends, ferr := s.friends.FriendsOf(authorId)
		if ferr == nil {
			for _, friendId := range friends {
				s.dispatcher.NotifyAsync(friendId, model.NotificationFriendPosted, payload)
			}
		}
	}

	return s.toRespond(p, authorId, fileIds)
}

// Delete removes a post. Only its author may.
func (s *Service) Delete(actorId string, postUuid int64) error {
	p, err := s.repos.Post.FindByUuid(postUuid)
	if err != nil {
		return err
	}
	if p.AuthorId != actorId {
		return errorx.New(errorx.CodeForbidden, "only the author can delete a post")
	}
	return s.repos.Post.Delete(postUuid)
}

// ToggleLike flips the actor's like on a post and reports the new
// state. A fresh like notifies the post's author; unliking is silent.
func (s *Service) ToggleLike(actorId string, postUuid int64) (bool, error) {
	p, err := s.repos.Post.FindByUuid(postUuid)
	if err != nil {
		return false, err
	}

	_, err = s.repos.Post.FindLike(postUuid, actorId)
	if err == nil {
		if err := s.repos.Post.DeleteLike(postUuid, actorId); err != nil {
			return false, err
		}
		return false, nil
	}
	if !errorx.IsNotFound(err) {
		return false, err
	}

	if err := s.repos.Post.CreateLike(&model.PostLike{PostUuid: postUuid, LikedById: actorId}); err != nil {
		return false, err
	}

	if actor, uerr := s.repos.User.FindByUuid(actorId); uerr == nil {
		payload := s.actorPayload(actor)
		payload.PostId = strconv.FormatInt(postUuid, 10)
		s.dispatcher.NotifyAsync(p.AuthorId, model.NotificationPostLiked, payload)
	}
	return true, nil
}

// Comment adds a comment to a post and notifies the post's author. A
// comment must carry content, a file, or both.
func (s *Service) Comment(actorId string, postUuid int64, content, fileId string) (*respond.CommentRespond, error) {
	if content == "" && fileId == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "comment needs content or a file")
	}
	p, err := s.repos.Post.FindByUuid(postUuid)
	if err != nil {
		return nil, err
	}

	c := &model.PostComment{
		Uuid:     snowflake.GenerateID(),
		PostUuid: postUuid,
		AuthorId: actorId,
		Content:  content,
		FileId:   fileId,
	}
	if err := s.repos.Post.CreateComment(c); err != nil {
		return nil, err
	}

	actor, err := s.repos.User.FindByUuid(actorId)
	if err != nil {
		return nil, err
	}
	payload := s.actorPayload(actor)
	payload.PostId = strconv.FormatInt(postUuid, 10)
	payload.Content = content
	if payload.Content == "" {
		payload.Content = "An attachment"
	}
	s.dispatcher.NotifyAsync(p.AuthorId, model.NotificationPostCommented, payload)

	return s.commentRespond(c, actor), nil
}

// DeleteComment removes a comment. The comment's author or the post's
// author may.
func (s *Service) DeleteComment(actorId string, commentUuid int64) error {
	c, err := s.repos.Post.FindCommentByUuid(commentUuid)
	if err != nil {
		return err
	}
	if c.AuthorId != actorId {
		p, perr := s.repos.Post.FindByUuid(c.PostUuid)
		if perr != nil {
			return perr
		}
		if p.AuthorId != actorId {
			return errorx.New(errorx.CodeForbidden, "not your comment")
		}
	}
	return s.repos.Post.DeleteComment(commentUuid)
}

// Comments returns a post's comments oldest-first.
func (s *Service) Comments(postUuid int64, offset, limit int) ([]respond.CommentRespond, error) {
	rows, err := s.repos.Post.FindCommentsByPost(postUuid, offset, limit)
	if err != nil {
		return nil, err
	}
	authors, err := s.authorsOf(authorIdsOfComments(rows))
	if err != nil {
		return nil, err
	}
	out := make([]respond.CommentRespond, 0, len(rows))
	for i := range rows {
		out = append(out, *s.commentRespond(&rows[i], authors[rows[i].AuthorId]))
	}
	return out, nil
}

// Feed returns posts by the viewer and their friends, newest first.
func (s *Service) Feed(viewerId string, offset, limit int) ([]respond.PostRespond, error) {
	friends, err := s.friends.FriendsOf(viewerId)
	if err != nil {
		return nil, err
	}
	return s.listPosts(viewerId, append(friends, viewerId), offset, limit)
}

// PostsOf returns one author's posts. Profiles are visible to friends
// and to the author.
func (s *Service) PostsOf(viewerId, authorId string, offset, limit int) ([]respond.PostRespond, error) {
	if viewerId != authorId {
		edge, err := s.repos.Friendship.FindByPair(viewerId, authorId)
		if err != nil {
			if errorx.IsNotFound(err) {
				return nil, errorx.New(errorx.CodeForbidden, "posts are visible to friends only")
			}
			return nil, err
		}
		if !edge.Accepted() {
			return nil, errorx.New(errorx.CodeForbidden, "posts are visible to friends only")
		}
	}
	return s.listPosts(viewerId, []string{authorId}, offset, limit)
}

// Get returns one post by id.
func (s *Service) Get(viewerId string, postUuid int64) (*respond.PostRespond, error) {
	p, err := s.repos.Post.FindByUuid(postUuid)
	if err != nil {
		return nil, err
	}
	files, err := s.repos.Post.FilesOf(p.Uuid)
	if err != nil {
		return nil, err
	}
	fileIds := make([]string, 0, len(files))
	for _, f := range files {
		fileIds = append(fileIds, f.FileId)
	}
	return s.toRespond(p, viewerId, fileIds)
}

func (s *Service) listPosts(viewerId string, authorIds []string, offset, limit int) ([]respond.PostRespond, error) {
	rows, err := s.repos.Post.FindByAuthors(authorIds, offset, limit)
	if err != nil {
		return nil, err
	}
	out := make([]respond.PostRespond, 0, len(rows))
	for i := range rows {
		files, err := s.repos.Post.FilesOf(rows[i].Uuid)
		if err != nil {
			return nil, err
		}
		fileIds := make([]string, 0, len(files))
		for _, f := range files {
			fileIds = append(fileIds, f.FileId)
		}
		r, err := s.toRespond(&rows[i], viewerId, fileIds)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *Service) toRespond(p *model.Post, viewerId string, fileIds []string) (*respond.PostRespond, error) {
	author, err := s.repos.User.FindByUuid(p.AuthorId)
	if err != nil {
		return nil, err
	}
	likes, err := s.repos.Post.CountLikes(p.Uuid)
	if err != nil {
		return nil, err
	}
	comments, err := s.repos.Post.CountComments(p.Uuid)
	if err != nil {
		return nil, err
	}
	liked := false
	if _, err := s.repos.Post.FindLike(p.Uuid, viewerId); err == nil {
		liked = true
	} else if !errorx.IsNotFound(err) {
		return nil, err
	}

	urls := make([]string, 0, len(fileIds))
	for _, id := range fileIds {
		urls = append(urls, s.files.URLOf(id))
	}
	return &respond.PostRespond{
		Id:       strconv.FormatInt(p.Uuid, 10),
		Author:   s.authorRespond(author),
		Content:  p.Content,
		Files:    urls,
		Likes:    likes,
		Comments: comments,
		Liked:    liked,
		PostedAt: p.CreatedAt,
	}, nil
}

func (s *Service) commentRespond(c *model.PostComment, author *model.UserInfo) *respond.CommentRespond {
	out := &respond.CommentRespond{
		Id:          strconv.FormatInt(c.Uuid, 10),
		PostId:      strconv.FormatInt(c.PostUuid, 10),
		Content:     c.Content,
		CommentedAt: c.CreatedAt,
	}
	if author != nil {
		out.Author = s.authorRespond(author)
	}
	if c.FileId != "" {
		out.FileURL = s.files.URLOf(c.FileId)
	}
	return out
}

func (s *Service) authorRespond(u *model.UserInfo) respond.AuthorRespond {
	return respond.AuthorRespond{
		UserId:       u.Uuid,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		ProfileImage: s.files.URLOf(u.Avatar),
	}
}

func (s *Service) actorPayload(u *model.UserInfo) notify.ActorPayload {
	return notify.ActorPayload{
		UserId:       u.Uuid,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		ProfileImage: s.files.URLOf(u.Avatar),
	}
}

func (s *Service) authorsOf(ids []string) (map[string]*model.UserInfo, error) {
	users, err := s.repos.User.FindByUuids(ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*model.UserInfo, len(users))
	for i := range users {
		out[users[i].Uuid] = &users[i]
	}
	return out, nil
}

func authorIdsOfComments(rows []model.PostComment) []string {
	seen := make(map[string]struct{}, len(rows))
	ids := make([]string, 0, len(rows))
	for _, c := range rows {
		if _, ok := seen[c.AuthorId]; ok {
			continue
		}
		seen[c.AuthorId] = struct{}{}
		ids = append(ids, c.AuthorId)
	}
	return ids
}
