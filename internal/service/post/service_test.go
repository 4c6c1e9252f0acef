package post

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"openbook_server/internal/dao/mysql/repository"
	"openbook_server/internal/dao/mysql/repository/fake"
	"openbook_server/internal/model"
	"openbook_server/internal/service/notify"
	"openbook_server/internal/service/presence"
	"openbook_server/pkg/errorx"
	"openbook_server/pkg/util/snowflake"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistry struct{}

func (fakeRegistry) Register(context.Context, string, string) error   { return nil }
func (fakeRegistry) Unregister(context.Context, string, string) error { return nil }
func (fakeRegistry) Close() error                                     { return nil }
func (fakeRegistry) Deliver(context.Context, string, string, any) (presence.DeliverResult, error) {
	return presence.NoActiveSession, nil
}

type fakeFiles struct{}

func (fakeFiles) Store([]byte) (string, error) { return "file-1", nil }
func (fakeFiles) URLOf(fileId string) string {
	if fileId == "" {
		return ""
	}
	return "/static/files/" + fileId
}

type staticFriends map[string][]string

func (f staticFriends) FriendsOf(userId string) ([]string, error) {
	return f[userId], nil
}

func newTestService(t *testing.T, friends staticFriends) (*Service, *repository.Repositories, *fake.NotificationRepo) {
	t.Helper()
	snowflake.Init(1)
	repos := fake.NewRepositories()
	notifications := repos.Notification.(*fake.NotificationRepo)
	pool := notify.NewTaskPool(0, 0)
	dispatcher := notify.NewDispatcher(notifications, fakeRegistry{}, pool)
	svc := NewService(repos, dispatcher, fakeFiles{}, friends)

	for _, u := range []model.UserInfo{
		{Uuid: "author", FirstName: "Ann", LastName: "Author"},
		{Uuid: "f1", FirstName: "Fay", LastName: "One"},
		{Uuid: "f2", FirstName: "Flo", LastName: "Two"},
		{Uuid: "stranger", FirstName: "Sam", LastName: "S"},
	} {
		u := u
		require.NoError(t, repos.User.Create(&u))
	}
	return svc, repos, notifications
}

func TestCreateFansOutToFriends(t *testing.T) {
	svc, _, notifications := newTestService(t, staticFriends{"author": {"f1", "f2"}})

	out, err := svc.Create("author", "hello world", []string{"aa", "bb"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", out.Content)
	assert.Equal(t, []string{"/static/files/aa", "/static/files/bb"}, out.Files)

	rows := notifications.All()
	require.Len(t, rows, 2)
	recipients := []string{rows[0].RecipientId, rows[1].RecipientId}
	assert.ElementsMatch(t, []string{"f1", "f2"}, recipients)
	for _, n := range rows {
		assert.Equal(t, model.NotificationFriendPosted, n.Type)
		var payload notify.ActorPayload
		require.NoError(t, json.Unmarshal([]byte(n.Payload), &payload))
		assert.Equal(t, "author", payload.UserId)
		assert.Equal(t, out.Id, payload.PostId)
	}
}

func TestCreateWithNoFriendsNotifiesNobody(t *testing.T) {
	svc, _, notifications := newTestService(t, staticFriends{})

	_, err := svc.Create("author", "talking to myself", nil)
	require.NoError(t, err)
	assert.Empty(t, notifications.All())
}

func TestDeleteAuthorOnly(t *testing.T) {
	svc, _, _ := newTestService(t, staticFriends{})

	out, err := svc.Create("author", "mine", nil)
	require.NoError(t, err)
	id, _ := strconv.ParseInt(out.Id, 10, 64)

	err = svc.Delete("f1", id)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	require.NoError(t, svc.Delete("author", id))
	_, err = svc.Get("author", id)
	assert.True(t, errorx.IsNotFound(err))
}

func TestToggleLike(t *testing.T) {
	svc, _, notifications := newTestService(t, staticFriends{})

	out, err := svc.Create("author", "likeable", nil)
	require.NoError(t, err)
	id, _ := strconv.ParseInt(out.Id, 10, 64)

	liked, err := svc.ToggleLike("f1", id)
	require.NoError(t, err)
	assert.True(t, liked)

	got, err := svc.Get("f1", id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Likes)
	assert.True(t, got.Liked)

	// The author is notified of the like.
	rows := notifications.All()
	require.Len(t, rows, 1)
	assert.Equal(t, "author", rows[0].RecipientId)
	assert.Equal(t, model.NotificationPostLiked, rows[0].Type)

	// Unlike removes the row and notifies nobody.
	liked, err = svc.ToggleLike("f1", id)
	require.NoError(t, err)
	assert.False(t, liked)
	got, err = svc.Get("f1", id)
	require.NoError(t, err)
	assert.Zero(t, got.Likes)
	assert.False(t, got.Liked)
	assert.Len(t, notifications.All(), 1)
}

func TestSelfLikeStillNotifies(t *testing.T) {
	svc, _, notifications := newTestService(t, staticFriends{})

	out, err := svc.Create("author", "self five", nil)
	require.NoError(t, err)
	id, _ := strconv.ParseInt(out.Id, 10, 64)

	_, err = svc.ToggleLike("author", id)
	require.NoError(t, err)
	rows := notifications.All()
	require.Len(t, rows, 1)
	assert.Equal(t, "author", rows[0].RecipientId)
}

func TestCommentNotifiesAuthor(t *testing.T) {
	svc, _, notifications := newTestService(t, staticFriends{})

	out, err := svc.Create("author", "discuss", nil)
	require.NoError(t, err)
	id, _ := strconv.ParseInt(out.Id, 10, 64)

	comment, err := svc.Comment("f1", id, "nice one", "")
	require.NoError(t, err)
	assert.Equal(t, "nice one", comment.Content)
	assert.Equal(t, "f1", comment.Author.UserId)

	rows := notifications.All()
	require.Len(t, rows, 1)
	assert.Equal(t, "author", rows[0].RecipientId)
	assert.Equal(t, model.NotificationPostCommented, rows[0].Type)
	var payload notify.ActorPayload
	require.NoError(t, json.Unmarshal([]byte(rows[0].Payload), &payload))
	assert.Equal(t, "nice one", payload.Content)
}

func TestFileOnlyCommentPayloadFallback(t *testing.T) {
	svc, _, notifications := newTestService(t, staticFriends{})

	out, err := svc.Create("author", "discuss", nil)
	require.NoError(t, err)
	id, _ := strconv.ParseInt(out.Id, 10, 64)

	comment, err := svc.Comment("f1", id, "", "cafe01")
	require.NoError(t, err)
	assert.Equal(t, "/static/files/cafe01", comment.FileURL)

	rows := notifications.All()
	require.Len(t, rows, 1)
	var payload notify.ActorPayload
	require.NoError(t, json.Unmarshal([]byte(rows[0].Payload), &payload))
	assert.Equal(t, "An attachment", payload.Content)
}

func TestCommentRequiresContentOrFile(t *testing.T) {
	svc, _, _ := newTestService(t, staticFriends{})

	out, err := svc.Create("author", "discuss", nil)
	require.NoError(t, err)
	id, _ := strconv.ParseInt(out.Id, 10, 64)

	_, err = svc.Comment("f1", id, "", "")
	require.Error(t, err)
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestDeleteComment(t *testing.T) {
	svc, _, _ := newTestService(t, staticFriends{})

	out, err := svc.Create("author", "discuss", nil)
	require.NoError(t, err)
	postId, _ := strconv.ParseInt(out.Id, 10, 64)
	comment, err := svc.Comment("f1", postId, "hot take", "")
	require.NoError(t, err)
	commentId, _ := strconv.ParseInt(comment.Id, 10, 64)

	// A third party cannot delete it.
	err = svc.DeleteComment("f2", commentId)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	// The post's author can moderate comments on their post.
	require.NoError(t, svc.DeleteComment("author", commentId))

	comment, err = svc.Comment("f1", postId, "again", "")
	require.NoError(t, err)
	commentId, _ = strconv.ParseInt(comment.Id, 10, 64)
	// And the comment's author can remove their own.
	require.NoError(t, svc.DeleteComment("f1", commentId))
}

func TestFeedIncludesSelfAndFriends(t *testing.T) {
	svc, repos, _ := newTestService(t, staticFriends{"author": {"f1"}})

	_, err := svc.Create("author", "own post", nil)
	require.NoError(t, err)
	require.NoError(t, repos.Post.Create(&model.Post{Uuid: snowflake.GenerateID(), AuthorId: "f1", Content: "friend post"}))
	require.NoError(t, repos.Post.Create(&model.Post{Uuid: snowflake.GenerateID(), AuthorId: "stranger", Content: "invisible"}))

	feed, err := svc.Feed("author", 0, 10)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	contents := []string{feed[0].Content, feed[1].Content}
	assert.ElementsMatch(t, []string{"own post", "friend post"}, contents)
}

func TestPostsOfVisibility(t *testing.T) {
	svc, repos, _ := newTestService(t, staticFriends{})
	edge := &model.Friendship{RequestedBy: "author", AcceptedBy: "f1"}
	require.NoError(t, repos.Friendship.Create(edge))
	require.NoError(t, repos.Friendship.Accept(edge.ID, time.Now()))

	_, err := svc.Create("author", "profile post", nil)
	require.NoError(t, err)

	posts, err := svc.PostsOf("f1", "author", 0, 10)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	posts, err = svc.PostsOf("author", "author", 0, 10)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	_, err = svc.PostsOf("stranger", "author", 0, 10)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
}
