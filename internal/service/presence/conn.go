package presence

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"openbook_server/pkg/constants"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// ErrConnClosed is returned by WriteEvent once the connection has been
// torn down. Emit treats it like any write failure.
var ErrConnClosed = errors.New("connection closed")

// liveEvent is the frame sent to the client.
type liveEvent struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// UserConn wraps one websocket connection with a buffered send channel
// and the read/write pump pair. Writes go through the channel so
// WriteEvent never blocks a deliver path on a slow client.
//
// A deliver can race the teardown: the registry may have loaded this
// writer from the ConnTable just before Remove. The send channel is
// therefore never closed; Close flips the closed flag under the mutex
// and signals WriteLoop through done, so a late WriteEvent returns
// ErrConnClosed instead of panicking.
type UserConn struct {
	UserId string
	ConnId string

	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

func NewUserConn(conn *websocket.Conn, userId, connId string) *UserConn {
	return &UserConn{
		UserId: userId,
		ConnId: connId,
		conn:   conn,
		send:   make(chan []byte, constants.CHANNEL_SIZE),
		done:   make(chan struct{}),
	}
}

// WriteEvent implements EventWriter. A full send buffer drops the
// event: the durable record is the source of truth and the client can
// re-poll.
func (c *UserConn) WriteEvent(event string, payload json.RawMessage) error {
	frame, err := json.Marshal(liveEvent{Event: event, Payload: payload})
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- frame:
		return nil
	default:
		zap.L().Warn("live event dropped, send buffer full",
			zap.String("userId", c.UserId),
			zap.String("event", event),
		)
		return nil
	}
}

// ReadLoop consumes client frames until the connection errors. The
// core defines no client -> server events, so inbound frames are
// discarded; the loop exists to detect disconnects.
func (c *UserConn) ReadLoop() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// WriteLoop drains the send channel onto the socket until Close.
func (c *UserConn) WriteLoop() {
	for {
		select {
		case <-c.done:
			return
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				zap.L().Debug("ws write failed", zap.String("userId", c.UserId), zap.Error(err))
				return
			}
		}
	}
}

// Close stops the pumps and the socket. Safe to call more than once.
func (c *UserConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	close(c.done)
	_ = c.conn.Close()
}
