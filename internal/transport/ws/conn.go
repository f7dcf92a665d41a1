package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/proctorhub/room-service/internal/domain"
	"github.com/proctorhub/room-service/internal/transport/wire"
)

// Conn wraps one group member's websocket. Writes are serialized through
// a channel-based mutex and bounded by a write deadline so one stalled
// peer cannot wedge a broadcast.
type Conn struct {
	conn        *websocket.Conn
	roomID      string
	sendTimeout time.Duration

	sendMu    chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
}

func newConn(c *websocket.Conn, roomID string, sendTimeout time.Duration) *Conn {
	return &Conn{
		conn:        c,
		roomID:      roomID,
		sendTimeout: sendTimeout,
		sendMu:      make(chan struct{}, 1),
		closed:      make(chan struct{}),
	}
}

func (c *Conn) SendMessage(msg Message) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()

	c.conn.SetWriteDeadline(time.Now().Add(c.sendTimeout))
	return c.conn.WriteJSON(msg)
}

// Deliver implements fanout.Handle.
func (c *Conn) Deliver(evt domain.Event) error {
	return c.SendMessage(wire.FromEvent(evt))
}

// Close is safe to call from any goroutine, any number of times: the
// room drop path and the handler's own teardown may race here.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return c.conn.Close()
}

func (c *Conn) RoomID() string { return c.roomID }
