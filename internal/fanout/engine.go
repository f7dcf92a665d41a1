package fanout

import (
	"log/slog"

	"github.com/proctorhub/room-service/internal/domain"
)

// Engine pushes domain events to every subscriber of the matching room.
// Delivery failures are contained: the dead subscriber is detached and
// closed, the rest of the room still receives the event, and the
// publisher never sees an error.
type Engine struct {
	table *Table
}

func NewEngine(table *Table) *Engine {
	return &Engine{table: table}
}

// Publish fans the event out. Room creation is announced on the lobby
// group; every other event targets the event's own room. Publishing to
// a room with no subscribers is a no-op.
func (e *Engine) Publish(evt domain.Event) {
	target := evt.RoomID
	if evt.Type == domain.EventRoomCreated {
		target = domain.LobbyRoomID
	}

	e.table.ForEach(target, func(sub *Subscriber) {
		if err := sub.Handle.Deliver(evt); err != nil {
			slog.Warn("fanout: delivery failed, detaching subscriber",
				"room", target, "subscriber", sub.ID, "kind", sub.Kind, "err", err)
			e.table.Detach(sub.ID)
			_ = sub.Handle.Close()
		}
	})
}

// DropRoom removes all subscribers of a room. Callers publish the
// RoomDeleted event first so group members get their teardown notice.
func (e *Engine) DropRoom(roomID string) {
	e.table.DropRoom(roomID)
}
