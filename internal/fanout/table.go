package fanout

import (
	"sync"

	"github.com/google/uuid"
	"github.com/proctorhub/room-service/internal/domain"
)

type Kind string

const (
	KindGroup  Kind = "group"  // bidirectional websocket member
	KindStream Kind = "stream" // one-way push stream
)

// Handle is the transport-specific delivery end of a subscriber.
// Deliver must be safe for concurrent use and must fail, not hang,
// once the peer is gone.
type Handle interface {
	Deliver(evt domain.Event) error
	Close() error
}

type Subscriber struct {
	ID     string
	RoomID string
	Kind   Kind
	Handle Handle
}

// Table maps rooms to their live subscribers across both transports.
// The outer lock guards only the two maps; each room's set has its own
// lock so iteration in one room never blocks attach/detach in another.
type Table struct {
	mu    sync.RWMutex
	rooms map[string]*roomSubs
	byID  map[string]*Subscriber
}

type roomSubs struct {
	mu   sync.RWMutex
	subs map[string]*Subscriber
}

func NewTable() *Table {
	return &Table{
		rooms: make(map[string]*roomSubs),
		byID:  make(map[string]*Subscriber),
	}
}

// Attach registers a subscriber for the room and returns its id.
func (t *Table) Attach(roomID string, kind Kind, h Handle) string {
	sub := &Subscriber{
		ID:     uuid.New().String(),
		RoomID: roomID,
		Kind:   kind,
		Handle: h,
	}

	t.mu.Lock()
	rs, ok := t.rooms[roomID]
	if !ok {
		rs = &roomSubs{subs: make(map[string]*Subscriber)}
		t.rooms[roomID] = rs
	}
	t.byID[sub.ID] = sub
	// insert while still holding the outer lock so the empty-room
	// cleanup in Detach cannot orphan this set in between
	rs.mu.Lock()
	rs.subs[sub.ID] = sub
	rs.mu.Unlock()
	t.mu.Unlock()

	return sub.ID
}

// Detach removes the subscriber. Calling it again, or with an unknown
// id, is a no-op.
func (t *Table) Detach(subscriberID string) {
	t.mu.Lock()
	sub, ok := t.byID[subscriberID]
	var rs *roomSubs
	if ok {
		delete(t.byID, subscriberID)
		rs = t.rooms[sub.RoomID]
	}
	t.mu.Unlock()
	if rs == nil {
		return
	}

	rs.mu.Lock()
	delete(rs.subs, subscriberID)
	empty := len(rs.subs) == 0
	rs.mu.Unlock()

	if empty {
		t.mu.Lock()
		if cur, ok := t.rooms[sub.RoomID]; ok && cur == rs {
			cur.mu.RLock()
			if len(cur.subs) == 0 {
				delete(t.rooms, sub.RoomID)
			}
			cur.mu.RUnlock()
		}
		t.mu.Unlock()
	}
}

// ForEach invokes fn once per subscriber currently attached to the room.
// Iteration works on a snapshot and re-checks membership before each
// call, so subscribers detached mid-iteration are skipped and fn is free
// to call Detach itself.
func (t *Table) ForEach(roomID string, fn func(sub *Subscriber)) {
	t.mu.RLock()
	rs, ok := t.rooms[roomID]
	t.mu.RUnlock()
	if !ok {
		return
	}

	rs.mu.RLock()
	snapshot := make([]*Subscriber, 0, len(rs.subs))
	for _, sub := range rs.subs {
		snapshot = append(snapshot, sub)
	}
	rs.mu.RUnlock()

	for _, sub := range snapshot {
		rs.mu.RLock()
		_, attached := rs.subs[sub.ID]
		rs.mu.RUnlock()
		if !attached {
			continue
		}
		fn(sub)
	}
}

// Count reports how many subscribers the room currently has.
func (t *Table) Count(roomID string) int {
	t.mu.RLock()
	rs, ok := t.rooms[roomID]
	t.mu.RUnlock()
	if !ok {
		return 0
	}

	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.subs)
}

// DropRoom detaches and closes every subscriber of the room. Used on
// room deletion after the teardown event has been delivered.
func (t *Table) DropRoom(roomID string) {
	t.mu.Lock()
	rs, ok := t.rooms[roomID]
	if ok {
		delete(t.rooms, roomID)
	}
	var dropped []*Subscriber
	if ok {
		rs.mu.Lock()
		for id, sub := range rs.subs {
			delete(t.byID, id)
			dropped = append(dropped, sub)
		}
		rs.subs = make(map[string]*Subscriber)
		rs.mu.Unlock()
	}
	t.mu.Unlock()

	for _, sub := range dropped {
		_ = sub.Handle.Close()
	}
}
