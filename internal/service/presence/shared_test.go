package presence

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSessionStore is an in-memory SessionStore shared between
// registries to stand in for Redis.
type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]string
	failing  bool
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]string)}
}

func (s *memSessionStore) Put(_ context.Context, userId, connId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userId] = connId
	return nil
}

func (s *memSessionStore) Get(_ context.Context, userId string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return "", errors.New("store down")
	}
	return s.sessions[userId], nil
}

func (s *memSessionStore) ClearIf(_ context.Context, userId, connId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[userId] == connId {
		delete(s.sessions, userId)
	}
	return nil
}

// memRelay broadcasts synchronously to every subscriber, like a
// pub/sub channel with one consumer group per process.
type memRelay struct {
	mu       sync.Mutex
	handlers []func(Envelope)
}

func (r *memRelay) Publish(_ context.Context, env Envelope) error {
	r.mu.Lock()
	handlers := append([]func(Envelope){}, r.handlers...)
	r.mu.Unlock()
	for _, h := range handlers {
		h(env)
	}
	return nil
}

func (r *memRelay) Subscribe(handler func(Envelope)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, handler)
}

func (r *memRelay) Close() error { return nil }

// Two registries sharing a store and relay model two server processes.
// A deliver initiated on the process without the socket must reach the
// process that owns it.
func TestSharedRegistryCrossProcessDelivery(t *testing.T) {
	ctx := context.Background()
	store := newMemSessionStore()
	relay := &memRelay{}

	connsA := NewConnTable()
	procA := NewSharedRegistry(store, relay, connsA)
	procA.Start()

	connsB := NewConnTable()
	procB := NewSharedRegistry(store, relay, connsB)
	procB.Start()

	// Alice's socket lives on process A.
	w := &recordingWriter{}
	connsA.Add("conn-a", w)
	require.NoError(t, procA.Register(ctx, "alice", "conn-a"))

	// Process B handles the request that triggers the push.
	result, err := procB.Deliver(ctx, "alice", "NEW_NOTIFICATION", nil)
	require.NoError(t, err)
	assert.Equal(t, Delivered, result)
	assert.Equal(t, []string{"NEW_NOTIFICATION"}, w.events)
}

func TestSharedRegistryLocalShortCircuit(t *testing.T) {
	ctx := context.Background()
	store := newMemSessionStore()
	relay := &memRelay{}

	conns := NewConnTable()
	reg := NewSharedRegistry(store, relay, conns)
	// No Start: if delivery relied on the relay it would go nowhere.

	w := &recordingWriter{}
	conns.Add("conn-1", w)
	require.NoError(t, reg.Register(ctx, "alice", "conn-1"))

	result, err := reg.Deliver(ctx, "alice", "NEW_MESSAGE", map[string]string{"content": "hi"})
	require.NoError(t, err)
	assert.Equal(t, Delivered, result)
	assert.Equal(t, []string{"NEW_MESSAGE"}, w.events)
}

func TestSharedRegistryDegradesWhenStoreDown(t *testing.T) {
	ctx := context.Background()
	store := newMemSessionStore()
	store.failing = true
	reg := NewSharedRegistry(store, &memRelay{}, NewConnTable())

	result, err := reg.Deliver(ctx, "alice", "NEW_NOTIFICATION", nil)
	assert.Error(t, err)
	assert.Equal(t, NoActiveSession, result)
}

func TestSharedRegistryUnregisterCompareAndClear(t *testing.T) {
	ctx := context.Background()
	store := newMemSessionStore()
	reg := NewSharedRegistry(store, &memRelay{}, NewConnTable())

	require.NoError(t, reg.Register(ctx, "alice", "conn-old"))
	require.NoError(t, reg.Register(ctx, "alice", "conn-new"))
	require.NoError(t, reg.Unregister(ctx, "alice", "conn-old"))

	connId, err := store.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "conn-new", connId)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	env := Envelope{ConnId: "c1", Event: "NEW_MESSAGE", Payload: json.RawMessage(`{"a":1}`)}
	raw, err := json.Marshal(env)
	require.NoError(t, err)
	var got Envelope
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, env, got)
}
