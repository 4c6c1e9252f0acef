package friendship

import (
	"context"
	"testing"

	"openbook_server/internal/dao/mysql/repository"
	"openbook_server/internal/dao/mysql/repository/fake"
	"openbook_server/internal/model"
	"openbook_server/internal/service/notify"
	"openbook_server/internal/service/presence"
	"openbook_server/pkg/util/snowflake"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistry struct {
	delivered []string
}

func (r *fakeRegistry) Register(context.Context, string, string) error   { return nil }
func (r *fakeRegistry) Unregister(context.Context, string, string) error { return nil }
func (r *fakeRegistry) Close() error                                     { return nil }
func (r *fakeRegistry) Deliver(_ context.Context, userId, event string, _ any) (presence.DeliverResult, error) {
	r.delivered = append(r.delivered, userId+":"+event)
	return presence.Delivered, nil
}

type fakeFiles struct{}

func (fakeFiles) Store([]byte) (string, error) { return "file-1", nil }
func (fakeFiles) URLOf(fileId string) string {
	if fileId == "" {
		return ""
	}
	return "/static/files/" + fileId
}

func newTestService(t *testing.T) (*Service, *repository.Repositories, *fake.NotificationRepo) {
	t.Helper()
	snowflake.Init(1)
	repos := fake.NewRepositories()
	notifications := repos.Notification.(*fake.NotificationRepo)
	// Zero workers and zero buffer makes Submit run tasks inline, so
	// side effects are visible as soon as the call returns.
	pool := notify.NewTaskPool(0, 0)
	dispatcher := notify.NewDispatcher(notifications, &fakeRegistry{}, pool)
	svc := NewService(repos, dispatcher, fakeFiles{})

	for _, u := range []model.UserInfo{
		{Uuid: "alice", FirstName: "Alice", LastName: "A"},
		{Uuid: "bob", FirstName: "Bob", LastName: "B"},
		{Uuid: "carol", FirstName: "Carol", LastName: "C"},
	} {
		u := u
		require.NoError(t, repos.User.Create(&u))
	}
	return svc, repos, notifications
}

func TestRequestThenAccept(t *testing.T) {
	svc, _, notifications := newTestService(t)

	outcome, err := svc.AddOrAccept("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)

	status, err := svc.StatusOf("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, model.StatusRequested, status)
	status, err = svc.StatusOf("bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, model.StatusReceived, status)

	outcome, err = svc.AddOrAccept("bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, outcome)

	status, err = svc.StatusOf("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, model.StatusFriend, status)
	status, err = svc.StatusOf("bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, model.StatusFriend, status)

	rows := notifications.All()
	require.Len(t, rows, 2)
	assert.Equal(t, "bob", rows[0].RecipientId)
	assert.Equal(t, model.NotificationFriendRequest, rows[0].Type)
	// Acceptance notifies the original requester.
	assert.Equal(t, "alice", rows[1].RecipientId)
	assert.Equal(t, model.NotificationFriendRequestAccepted, rows[1].Type)
}

func TestRepeatRequestIsIdempotent(t *testing.T) {
	svc, _, notifications := newTestService(t)

	_, err := svc.AddOrAccept("alice", "bob")
	require.NoError(t, err)

	outcome, err := svc.AddOrAccept("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyRequested, outcome)
	assert.Len(t, notifications.All(), 1)
}

func TestAddAfterAccepted(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AddOrAccept("alice", "bob")
	require.NoError(t, err)
	_, err = svc.AddOrAccept("bob", "alice")
	require.NoError(t, err)

	outcome, err := svc.AddOrAccept("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyFriends, outcome)
	outcome, err = svc.AddOrAccept("bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyFriends, outcome)
}

func TestRemoveIsSymmetricAndSilent(t *testing.T) {
	svc, _, notifications := newTestService(t)

	_, err := svc.AddOrAccept("alice", "bob")
	require.NoError(t, err)
	_, err = svc.AddOrAccept("bob", "alice")
	require.NoError(t, err)
	before := len(notifications.All())

	outcome, err := svc.Remove("bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRemoved, outcome)

	status, err := svc.StatusOf("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, model.StatusStranger, status)
	assert.Len(t, notifications.All(), before)

	// Removing an edge that no longer exists is not an error.
	outcome, err = svc.Remove("bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, outcome)
}

func TestCancelPendingRequest(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AddOrAccept("alice", "bob")
	require.NoError(t, err)
	_, err = svc.Remove("alice", "bob")
	require.NoError(t, err)

	status, err := svc.StatusOf("bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, model.StatusStranger, status)

	// A fresh request after cancellation starts the machine over.
	outcome, err := svc.AddOrAccept("bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)
}

// The reciprocal-insert race: the second insert hits the unique
// pair-key and the loser is told about the existing edge instead of
// creating a duplicate.
func TestReciprocalRequestRace(t *testing.T) {
	svc, repos, _ := newTestService(t)

	// Simulate bob's insert landing between alice's existence check and
	// her insert.
	require.NoError(t, repos.Friendship.Create(&model.Friendship{RequestedBy: "bob", AcceptedBy: "alice"}))

	outcome, err := svc.create("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyRequested, outcome)

	// Still exactly one edge, in bob's direction.
	edge, err := repos.Friendship.FindByPair("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", edge.RequestedBy)
}

func TestFriendsOf(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AddOrAccept("alice", "bob")
	require.NoError(t, err)
	_, err = svc.AddOrAccept("bob", "alice")
	require.NoError(t, err)
	_, err = svc.AddOrAccept("carol", "alice")
	require.NoError(t, err)
	_, err = svc.AddOrAccept("alice", "carol")
	require.NoError(t, err)
	// Pending edges do not count.
	_, err = svc.AddOrAccept("bob", "carol")
	require.NoError(t, err)

	friends, err := svc.FriendsOf("alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bob", "carol"}, friends)

	friends, err = svc.FriendsOf("carol")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice"}, friends)
}
