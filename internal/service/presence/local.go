package presence

import (
	"context"
	"sync"
)

// LocalRegistry keeps the session map in process memory with no relay.
// Only valid for single-process deployments: a push originating on
// another process cannot reach connections registered here. Do not use
// behind a load balancer.
type LocalRegistry struct {
	mu       sync.Mutex
	sessions map[string]string // userId -> connId
	conns    *ConnTable
}

func NewLocalRegistry(conns *ConnTable) *LocalRegistry {
	return &LocalRegistry{
		sessions: make(map[string]string),
		conns:    conns,
	}
}

func (r *LocalRegistry) Register(_ context.Context, userId, connId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[userId] = connId
	return nil
}

// Unregister clears the mapping only if it still points at connId.
func (r *LocalRegistry) Unregister(_ context.Context, userId, connId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[userId] == connId {
		delete(r.sessions, userId)
	}
	return nil
}

func (r *LocalRegistry) Deliver(_ context.Context, userId, event string, payload any) (DeliverResult, error) {
	raw, err := marshalPayload(payload)
	if err != nil {
		return NoActiveSession, err
	}

	r.mu.Lock()
	connId, ok := r.sessions[userId]
	r.mu.Unlock()
	if !ok {
		return NoActiveSession, nil
	}
	if !r.conns.Emit(connId, event, raw) {
		return NoActiveSession, nil
	}
	return Delivered, nil
}

func (r *LocalRegistry) Close() error {
	return nil
}
