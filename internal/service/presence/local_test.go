package presence

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingWriter captures emitted events in place of a websocket.
type recordingWriter struct {
	events []string
}

func (w *recordingWriter) WriteEvent(event string, _ json.RawMessage) error {
	w.events = append(w.events, event)
	return nil
}

func TestLocalRegistryDeliver(t *testing.T) {
	ctx := context.Background()
	conns := NewConnTable()
	reg := NewLocalRegistry(conns)

	w := &recordingWriter{}
	conns.Add("conn-1", w)
	require.NoError(t, reg.Register(ctx, "alice", "conn-1"))

	result, err := reg.Deliver(ctx, "alice", "NEW_NOTIFICATION", nil)
	require.NoError(t, err)
	assert.Equal(t, Delivered, result)
	assert.Equal(t, []string{"NEW_NOTIFICATION"}, w.events)
}

func TestLocalRegistryNoSession(t *testing.T) {
	ctx := context.Background()
	reg := NewLocalRegistry(NewConnTable())

	result, err := reg.Deliver(ctx, "nobody", "NEW_NOTIFICATION", nil)
	require.NoError(t, err)
	assert.Equal(t, NoActiveSession, result)
}

func TestLocalRegistryLastConnectionWins(t *testing.T) {
	ctx := context.Background()
	conns := NewConnTable()
	reg := NewLocalRegistry(conns)

	old := &recordingWriter{}
	fresh := &recordingWriter{}
	conns.Add("conn-old", old)
	conns.Add("conn-new", fresh)

	require.NoError(t, reg.Register(ctx, "alice", "conn-old"))
	require.NoError(t, reg.Register(ctx, "alice", "conn-new"))

	result, err := reg.Deliver(ctx, "alice", "NEW_MESSAGE", nil)
	require.NoError(t, err)
	assert.Equal(t, Delivered, result)
	assert.Empty(t, old.events)
	assert.Equal(t, []string{"NEW_MESSAGE"}, fresh.events)
}

func TestLocalRegistryUnregisterCompareAndClear(t *testing.T) {
	ctx := context.Background()
	conns := NewConnTable()
	reg := NewLocalRegistry(conns)

	fresh := &recordingWriter{}
	conns.Add("conn-new", fresh)

	require.NoError(t, reg.Register(ctx, "alice", "conn-old"))
	require.NoError(t, reg.Register(ctx, "alice", "conn-new"))

	// The stale connection's teardown arrives late and must not clear
	// the newer session.
	require.NoError(t, reg.Unregister(ctx, "alice", "conn-old"))
	result, err := reg.Deliver(ctx, "alice", "NEW_MESSAGE", nil)
	require.NoError(t, err)
	assert.Equal(t, Delivered, result)

	// The owning connection's teardown does clear it.
	require.NoError(t, reg.Unregister(ctx, "alice", "conn-new"))
	result, err = reg.Deliver(ctx, "alice", "NEW_MESSAGE", nil)
	require.NoError(t, err)
	assert.Equal(t, NoActiveSession, result)
}
