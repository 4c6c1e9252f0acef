// Package presence maps a user id to the live connection currently
// serving it and routes server-generated events to that connection,
// across any number of server processes.
//
// Two implementations exist. LocalRegistry keeps the session map in
// process memory: the minimal single-process configuration, which
// loses delivery across a horizontal scale-out. SharedRegistry keeps
// the map in a shared store (Redis) and broadcasts events over a relay
// (Redis pub/sub or Kafka) so the process owning the physical socket
// can emit them.
package presence

import (
	"context"
	"encoding/json"
	"sync"

	"openbook_server/pkg/errorx"
)

// DeliverResult is the outcome of a Deliver call.
type DeliverResult int

const (
	// NoActiveSession means the user has no live connection anywhere, or
	// the relay was unavailable. Live push is best-effort: callers treat
	// both the same and rely on the durable record.
	NoActiveSession DeliverResult = iota
	Delivered
)

// Registry is the presence contract.
//
// Register makes userId -> connId visible to all processes, replacing
// any previous mapping (last connection wins; a user holds one logical
// session). Unregister clears the mapping only while it still points
// at connId, so a slow disconnect never clobbers a newer session.
// Deliver resolves the mapping and routes the event to the owning
// process; it must degrade to NoActiveSession rather than block or
// fail the caller.
type Registry interface {
	Register(ctx context.Context, userId, connId string) error
	Unregister(ctx context.Context, userId, connId string) error
	Deliver(ctx context.Context, userId, event string, payload any) (DeliverResult, error)
	Close() error
}

// Envelope is the wire format relayed between processes: the target
// connection plus the event to emit on it.
type Envelope struct {
	ConnId  string          `json:"connId"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// EventWriter is the sink side of a live connection. *UserConn is the
// production implementation; tests substitute their own.
type EventWriter interface {
	WriteEvent(event string, payload json.RawMessage) error
}

// ConnTable holds the physical connections owned by this process,
// keyed by connection id.
type ConnTable struct {
	conns sync.Map
}

func NewConnTable() *ConnTable {
	return &ConnTable{}
}

func (t *ConnTable) Add(connId string, w EventWriter) {
	t.conns.Store(connId, w)
}

func (t *ConnTable) Remove(connId string) {
	t.conns.Delete(connId)
}

// Emit writes the event to connId if this process owns it.
func (t *ConnTable) Emit(connId, event string, payload json.RawMessage) bool {
	value, ok := t.conns.Load(connId)
	if !ok {
		return false
	}
	if err := value.(EventWriter).WriteEvent(event, payload); err != nil {
		return false
	}
	return true
}

func marshalPayload(payload any) (json.RawMessage, error) {
	if payload == nil {
		return nil, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeInvalidParam, "marshal event payload")
	}
	return raw, nil
}
