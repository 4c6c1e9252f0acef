package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"openbook_server/internal/dao/mysql/repository/fake"
	"openbook_server/internal/infrastructure/middleware"
	"openbook_server/internal/model"
	"openbook_server/internal/service"
	"openbook_server/internal/service/notify"
	"openbook_server/internal/service/presence"
	"openbook_server/pkg/util/snowflake"

	"github.com/gin-gonic/gin"
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

// newTestEngine wires the friendship routes over in-memory
// repositories, with auth stubbed to the user named per request
// through the X-Test-User header.
func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	snowflake.Init(1)

	repos := fake.NewRepositories()
	pool := notify.NewTaskPool(0, 0)
	dispatcher := notify.NewDispatcher(repos.Notification, fakeRegistry{}, pool)
	service.Svc = service.NewServices(repos, dispatcher, fakeFiles{})

	for _, u := range []model.UserInfo{
		{Uuid: "alice", FirstName: "Alice", LastName: "A"},
		{Uuid: "bob", FirstName: "Bob", LastName: "B"},
	} {
		u := u
		require.NoError(t, repos.User.Create(&u))
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, c.GetHeader("X-Test-User"))
	})
	r.POST("/friend/add/:userId", AddFriend)
	r.DELETE("/friend/remove/:userId", RemoveFriend)
	r.GET("/friend/status/:userId", FriendshipStatus)
	return r
}

func do(r *gin.Engine, method, path, actor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-Test-User", actor)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddFriendStatusMapping(t *testing.T) {
	r := newTestEngine(t)

	// Fresh request.
	w := do(r, http.MethodPost, "/friend/add/bob", "alice")
	assert.Equal(t, http.StatusCreated, w.Code)

	// Re-sending your own pending request is refused.
	w = do(r, http.MethodPost, "/friend/add/bob", "alice")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The target's add accepts.
	w = do(r, http.MethodPost, "/friend/add/alice", "bob")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(model.StatusFriend))

	// Adding an established friend conflicts, either direction.
	w = do(r, http.MethodPost, "/friend/add/bob", "alice")
	assert.Equal(t, http.StatusConflict, w.Code)
	w = do(r, http.MethodPost, "/friend/add/alice", "bob")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAddFriendSelfRejected(t *testing.T) {
	r := newTestEngine(t)
	w := do(r, http.MethodPost, "/friend/add/alice", "alice")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveFriendStatusMapping(t *testing.T) {
	r := newTestEngine(t)

	// No edge to remove.
	w := do(r, http.MethodDelete, "/friend/remove/bob", "alice")
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/friend/add/bob", "alice").Code)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/friend/add/alice", "bob").Code)

	// Unfriending works from either side.
	w = do(r, http.MethodDelete, "/friend/remove/alice", "bob")
	assert.Equal(t, http.StatusOK, w.Code)

	// The edge is gone, so a second remove is a 404.
	w = do(r, http.MethodDelete, "/friend/remove/bob", "alice")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/friend/status/bob", "alice")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(model.StatusStranger))
}
