package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/proctorhub/room-service/internal/domain"
)

// Rooms is the in-memory authoritative room store. The outer lock only
// guards the map itself; participant mutation is serialized per room so
// traffic on one room never blocks another.
type Rooms struct {
	mu    sync.RWMutex
	rooms map[string]*roomEntry
}

type roomEntry struct {
	mu   sync.Mutex
	room domain.Room
}

func NewRooms() *Rooms {
	return &Rooms{rooms: make(map[string]*roomEntry)}
}

// Create stores the room. A second room with the same id is rejected so
// id generation can reject-and-retry on collision.
func (r *Rooms) Create(room domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[room.ID]; ok {
		return domain.ErrRoomExists
	}
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now()
	}
	r.rooms[room.ID] = &roomEntry{room: room}
	return nil
}

// Exists reports whether the id is currently registered.
func (r *Rooms) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[id]
	return ok
}

// Get returns a copy of the room, participants included.
func (r *Rooms) Get(id string) (domain.Room, error) {
	r.mu.RLock()
	e, ok := r.rooms[id]
	r.mu.RUnlock()
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return copyRoom(e.room), nil
}

// List returns all rooms, newest first.
func (r *Rooms) List() []domain.Room {
	r.mu.RLock()
	entries := make([]*roomEntry, 0, len(r.rooms))
	for _, e := range r.rooms {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	out := make([]domain.Room, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, copyRoom(e.room))
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Delete removes the room and returns its final state.
func (r *Rooms) Delete(id string) (domain.Room, error) {
	r.mu.Lock()
	e, ok := r.rooms[id]
	if ok {
		delete(r.rooms, id)
	}
	r.mu.Unlock()
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return copyRoom(e.room), nil
}

// AddParticipant appends a participant with the current time. A roll
// number already present in the room is rejected with ErrAlreadyJoined.
func (r *Rooms) AddParticipant(id, rollNumber string) (domain.Participant, error) {
	r.mu.RLock()
	e, ok := r.rooms[id]
	r.mu.RUnlock()
	if !ok {
		return domain.Participant{}, domain.ErrRoomNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, p := range e.room.Participants {
		if p.RollNumber == rollNumber {
			return domain.Participant{}, domain.ErrAlreadyJoined
		}
	}
	p := domain.Participant{
		RoomID:     id,
		RollNumber: rollNumber,
		JoinedAt:   time.Now(),
	}
	e.room.Participants = append(e.room.Participants, p)
	return p, nil
}

// RemoveParticipant deletes the roll number from the room.
func (r *Rooms) RemoveParticipant(id, rollNumber string) (domain.Participant, error) {
	r.mu.RLock()
	e, ok := r.rooms[id]
	r.mu.RUnlock()
	if !ok {
		return domain.Participant{}, domain.ErrRoomNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i, p := range e.room.Participants {
		if p.RollNumber == rollNumber {
			e.room.Participants = append(e.room.Participants[:i], e.room.Participants[i+1:]...)
			return p, nil
		}
	}
	return domain.Participant{}, domain.ErrNotInRoom
}

// ListParticipants returns a copy of the room's participant list.
func (r *Rooms) ListParticipants(id string) ([]domain.Participant, error) {
	room, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	return room.Participants, nil
}

func copyRoom(room domain.Room) domain.Room {
	out := room
	out.Participants = make([]domain.Participant, len(room.Participants))
	copy(out.Participants, room.Participants)
	return out
}
