// Package fake provides in-memory repository implementations for
// service tests. They honor the same contracts as the gorm-backed
// ones, including the unique pair-key index on friendship edges and
// the (post, user) index on likes.
package fake

import (
	"sort"
	"sync"
	"time"

	"openbook_server/internal/dao/mysql/repository"
	"openbook_server/internal/model"
	"openbook_server/pkg/errorx"

	"gorm.io/gorm"
)

func notFound(msg string) error {
	return errorx.Wrap(gorm.ErrRecordNotFound, errorx.CodeNotFound, msg)
}

func duplicated(msg string) error {
	return errorx.Wrap(gorm.ErrDuplicatedKey, errorx.CodeDBError, msg)
}

// NewRepositories builds a Repositories aggregate backed entirely by
// memory. The db handle is nil; Transaction is not supported.
func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		Friendship:   NewFriendshipRepo(),
		Notification: NewNotificationRepo(),
		Message:      NewMessageRepo(),
		Post:         NewPostRepo(),
		User:         NewUserRepo(),
	}
}

// FriendshipRepo emulates the friendship table with its unique
// pair-key index.
type FriendshipRepo struct {
	mu     sync.Mutex
	nextId uint
	edges  map[string]*model.Friendship // pairKey -> edge
}

func NewFriendshipRepo() *FriendshipRepo {
	return &FriendshipRepo{edges: make(map[string]*model.Friendship)}
}

func (r *FriendshipRepo) FindByPair(a, b string) (*model.Friendship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	edge, ok := r.edges[model.PairKeyOf(a, b)]
	if !ok {
		return nil, notFound("friendship not found")
	}
	cp := *edge
	return &cp, nil
}

func (r *FriendshipRepo) Create(f *model.Friendship) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := model.PairKeyOf(f.RequestedBy, f.AcceptedBy)
	if _, ok := r.edges[key]; ok {
		return duplicated("friendship exists")
	}
	r.nextId++
	f.ID = r.nextId
	f.PairKey = key
	cp := *f
	r.edges[key] = &cp
	return nil
}

func (r *FriendshipRepo) Accept(id uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, edge := range r.edges {
		if edge.ID == id {
			edge.AcceptedAt.Time = at
			edge.AcceptedAt.Valid = true
			return nil
		}
	}
	return notFound("friendship not found")
}

func (r *FriendshipRepo) Delete(f *model.Friendship) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.edges, model.PairKeyOf(f.RequestedBy, f.AcceptedBy))
	return nil
}

func (r *FriendshipRepo) FindAcceptedOf(userId string) ([]model.Friendship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Friendship
	for _, edge := range r.edges {
		if edge.Accepted() && (edge.RequestedBy == userId || edge.AcceptedBy == userId) {
			out = append(out, *edge)
		}
	}
	return out, nil
}

// NotificationRepo stores notification records in insertion order.
type NotificationRepo struct {
	mu   sync.Mutex
	rows []*model.Notification
}

func NewNotificationRepo() *NotificationRepo {
	return &NotificationRepo{}
}

func (r *NotificationRepo) Create(n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = uint(len(r.rows) + 1)
	n.CreatedAt = time.Now()
	cp := *n
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *NotificationRepo) FindByRecipient(recipientId string, offset, limit int) ([]model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []model.Notification
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].RecipientId == recipientId {
			all = append(all, *r.rows[i])
		}
	}
	return window(all, offset, limit), nil
}

func (r *NotificationRepo) MarkRead(uuid int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.rows {
		if n.Uuid == uuid {
			n.Read = true
			return true, nil
		}
	}
	return false, nil
}

func (r *NotificationRepo) CountUnread(recipientId string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.rows {
		if n.RecipientId == recipientId && !n.Read {
			count++
		}
	}
	return count, nil
}

// All returns every stored record, for assertions.
func (r *NotificationRepo) All() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Notification, 0, len(r.rows))
	for _, n := range r.rows {
		out = append(out, *n)
	}
	return out
}

// MessageRepo stores the direct-message log.
type MessageRepo struct {
	mu   sync.Mutex
	rows []*model.Message
}

func NewMessageRepo() *MessageRepo {
	return &MessageRepo{}
}

func (r *MessageRepo) Create(m *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = uint(len(r.rows) + 1)
	m.CreatedAt = time.Now()
	cp := *m
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *MessageRepo) FindConversation(userId, otherId string, offset, limit int) ([]model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []model.Message
	for _, m := range r.rows {
		if (m.SenderId == userId && m.RecipientId == otherId) ||
			(m.SenderId == otherId && m.RecipientId == userId) {
			all = append(all, *m)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SentAt.After(all[j].SentAt) })
	return window(all, offset, limit), nil
}

func (r *MessageRepo) MarkConversationRead(senderId, recipientId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.rows {
		if m.SenderId == senderId && m.RecipientId == recipientId {
			m.Read = true
		}
	}
	return nil
}

func (r *MessageRepo) FindByParticipant(userId string) ([]model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Message
	for _, m := range r.rows {
		if m.SenderId == userId || m.RecipientId == userId {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *MessageRepo) CountUnread(recipientId string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.rows {
		if m.RecipientId == recipientId && !m.Read {
			count++
		}
	}
	return count, nil
}

// PostRepo stores posts, attachments, likes and comments.
type PostRepo struct {
	mu       sync.Mutex
	posts    []*model.Post
	files    []model.PostFile
	likes    map[int64]map[string]bool // postUuid -> userId
	comments []*model.PostComment
}

func NewPostRepo() *PostRepo {
	return &PostRepo{likes: make(map[int64]map[string]bool)}
}

func (r *PostRepo) Create(p *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uint(len(r.posts) + 1)
	p.CreatedAt = time.Now()
	cp := *p
	r.posts = append(r.posts, &cp)
	return nil
}

func (r *PostRepo) CreateFiles(files []model.PostFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, files...)
	return nil
}

func (r *PostRepo) FindByUuid(uuid int64) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.Uuid == uuid {
			cp := *p
			return &cp, nil
		}
	}
	return nil, notFound("post not found")
}

func (r *PostRepo) FindByAuthors(authorIds []string, offset, limit int) ([]model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	allowed := make(map[string]bool, len(authorIds))
	for _, id := range authorIds {
		allowed[id] = true
	}
	var all []model.Post
	for i := len(r.posts) - 1; i >= 0; i-- {
		if allowed[r.posts[i].AuthorId] {
			all = append(all, *r.posts[i])
		}
	}
	return window(all, offset, limit), nil
}

func (r *PostRepo) Delete(uuid int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.posts {
		if p.Uuid == uuid {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return notFound("post not found")
}

func (r *PostRepo) FilesOf(postUuid int64) ([]model.PostFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.PostFile
	for _, f := range r.files {
		if f.PostUuid == postUuid {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *PostRepo) FindLike(postUuid int64, userId string) (*model.PostLike, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.likes[postUuid][userId] {
		return &model.PostLike{PostUuid: postUuid, LikedById: userId}, nil
	}
	return nil, notFound("like not found")
}

func (r *PostRepo) CreateLike(l *model.PostLike) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.likes[l.PostUuid][l.LikedById] {
		return duplicated("like exists")
	}
	if r.likes[l.PostUuid] == nil {
		r.likes[l.PostUuid] = make(map[string]bool)
	}
	r.likes[l.PostUuid][l.LikedById] = true
	return nil
}

func (r *PostRepo) DeleteLike(postUuid int64, userId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.likes[postUuid], userId)
	return nil
}

func (r *PostRepo) CountLikes(postUuid int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.likes[postUuid])), nil
}

func (r *PostRepo) CreateComment(c *model.PostComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uint(len(r.comments) + 1)
	c.CreatedAt = time.Now()
	cp := *c
	r.comments = append(r.comments, &cp)
	return nil
}

func (r *PostRepo) FindCommentByUuid(uuid int64) (*model.PostComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.comments {
		if c.Uuid == uuid {
			cp := *c
			return &cp, nil
		}
	}
	return nil, notFound("comment not found")
}

func (r *PostRepo) DeleteComment(uuid int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.comments {
		if c.Uuid == uuid {
			r.comments = append(r.comments[:i], r.comments[i+1:]...)
			return nil
		}
	}
	return notFound("comment not found")
}

func (r *PostRepo) FindCommentsByPost(postUuid int64, offset, limit int) ([]model.PostComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []model.PostComment
	for _, c := range r.comments {
		if c.PostUuid == postUuid {
			all = append(all, *c)
		}
	}
	return window(all, offset, limit), nil
}

func (r *PostRepo) CountComments(postUuid int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, c := range r.comments {
		if c.PostUuid == postUuid {
			count++
		}
	}
	return count, nil
}

// UserRepo stores user profiles by id.
type UserRepo struct {
	mu    sync.Mutex
	users map[string]model.UserInfo
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]model.UserInfo)}
}

func (r *UserRepo) FindByUuid(uuid string) (*model.UserInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uuid]
	if !ok {
		return nil, notFound("user not found")
	}
	return &u, nil
}

func (r *UserRepo) FindByUuids(uuids []string) ([]model.UserInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.UserInfo
	for _, id := range uuids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *UserRepo) Create(u *model.UserInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.Uuid] = *u
	return nil
}

func window[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
