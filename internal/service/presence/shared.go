package presence

import (
	"context"
	"encoding/json"

	"openbook_server/pkg/constants"

	"go.uber.org/zap"
)

// SessionStore is the shared user -> connection map. All processes see
// the same view. ClearIf must be atomic compare-and-clear so a stale
// unregister never races a newer register.
type SessionStore interface {
	Put(ctx context.Context, userId, connId string) error
	// Get returns "" when the user has no live session.
	Get(ctx context.Context, userId string) (string, error)
	ClearIf(ctx context.Context, userId, connId string) error
}

// Relay broadcasts envelopes to every process; the one owning the
// target connection emits the event on its socket.
type Relay interface {
	Publish(ctx context.Context, env Envelope) error
	// Subscribe starts a background loop invoking handler for every
	// relayed envelope.
	Subscribe(handler func(Envelope))
	Close() error
}

// SharedRegistry is the cross-process registry: a shared session store
// plus a broadcast relay. Deliver never blocks past the configured
// timeout and degrades to NoActiveSession when the store or relay is
// unavailable, keeping live push off the critical path of writes.
type SharedRegistry struct {
	store SessionStore
	relay Relay
	conns *ConnTable
}

func NewSharedRegistry(store SessionStore, relay Relay, conns *ConnTable) *SharedRegistry {
	return &SharedRegistry{store: store, relay: relay, conns: conns}
}

// Start subscribes this process to the relay. Envelopes for
// connections owned elsewhere miss the local table and are ignored.
func (r *SharedRegistry) Start() {
	r.relay.Subscribe(func(env Envelope) {
		r.conns.Emit(env.ConnId, env.Event, env.Payload)
	})
}

func (r *SharedRegistry) Register(ctx context.Context, userId, connId string) error {
	return r.store.Put(ctx, userId, connId)
}

func (r *SharedRegistry) Unregister(ctx context.Context, userId, connId string) error {
	return r.store.ClearIf(ctx, userId, connId)
}

// Deliver resolves the session and hands the envelope to the relay.
// A local connection is emitted directly, skipping the relay hop.
func (r *SharedRegistry) Deliver(ctx context.Context, userId, event string, payload any) (DeliverResult, error) {
	raw, err := marshalPayload(payload)
	if err != nil {
		return NoActiveSession, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DELIVER_TIMEOUT)
	defer cancel()

	connId, err := r.store.Get(ctx, userId)
	if err != nil {
		zap.L().Warn("presence store unavailable, degrading to no-session",
			zap.String("userId", userId), zap.Error(err))
		return NoActiveSession, err
	}
	if connId == "" {
		return NoActiveSession, nil
	}

	if r.conns.Emit(connId, event, raw) {
		return Delivered, nil
	}

	env := Envelope{ConnId: connId, Event: event, Payload: json.RawMessage(raw)}
	if err := r.relay.Publish(ctx, env); err != nil {
		zap.L().Warn("presence relay publish failed, degrading to no-session",
			zap.String("userId", userId), zap.Error(err))
		return NoActiveSession, err
	}
	return Delivered, nil
}

func (r *SharedRegistry) Close() error {
	return r.relay.Close()
}
