package registry

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/proctorhub/room-service/internal/domain"
)

func TestRooms_CreateAndGet(t *testing.T) {
	req := require.New(t)
	r := NewRooms()

	err := r.Create(domain.Room{ID: "A1B2C", Name: "Algebra101"})
	req.NoError(err)

	room, err := r.Get("A1B2C")
	req.NoError(err)
	req.Equal("Algebra101", room.Name)
	req.False(room.CreatedAt.IsZero())
	req.Empty(room.Participants)
}

func TestRooms_CreateDuplicateID(t *testing.T) {
	req := require.New(t)
	r := NewRooms()

	req.NoError(r.Create(domain.Room{ID: "A1B2C", Name: "first"}))
	err := r.Create(domain.Room{ID: "A1B2C", Name: "second"})
	req.ErrorIs(err, domain.ErrRoomExists)
}

func TestRooms_GetMissing(t *testing.T) {
	r := NewRooms()

	_, err := r.Get("ZZZZZ")
	require.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRooms_Delete(t *testing.T) {
	req := require.New(t)
	r := NewRooms()

	req.NoError(r.Create(domain.Room{ID: "A1B2C", Name: "Algebra101"}))

	room, err := r.Delete("A1B2C")
	req.NoError(err)
	req.Equal("Algebra101", room.Name)

	_, err = r.Get("A1B2C")
	req.ErrorIs(err, domain.ErrRoomNotFound)

	_, err = r.Delete("A1B2C")
	req.ErrorIs(err, domain.ErrRoomNotFound)
}

func TestRooms_AddParticipant(t *testing.T) {
	req := require.New(t)
	r := NewRooms()

	req.NoError(r.Create(domain.Room{ID: "A1B2C", Name: "Algebra101"}))

	p, err := r.AddParticipant("A1B2C", "21CS045")
	req.NoError(err)
	req.Equal("21CS045", p.RollNumber)
	req.Equal("A1B2C", p.RoomID)
	req.False(p.JoinedAt.IsZero())

	room, err := r.Get("A1B2C")
	req.NoError(err)
	req.Len(room.Participants, 1)
}

func TestRooms_AddParticipantDuplicateRoll(t *testing.T) {
	req := require.New(t)
	r := NewRooms()

	req.NoError(r.Create(domain.Room{ID: "A1B2C", Name: "Algebra101"}))

	_, err := r.AddParticipant("A1B2C", "21CS045")
	req.NoError(err)

	_, err = r.AddParticipant("A1B2C", "21CS045")
	req.ErrorIs(err, domain.ErrAlreadyJoined)

	room, _ := r.Get("A1B2C")
	req.Len(room.Participants, 1)
}

func TestRooms_AddParticipantMissingRoom(t *testing.T) {
	r := NewRooms()

	_, err := r.AddParticipant("ZZZZZ", "21CS045")
	require.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRooms_RemoveParticipant(t *testing.T) {
	req := require.New(t)
	r := NewRooms()

	req.NoError(r.Create(domain.Room{ID: "A1B2C", Name: "Algebra101"}))
	_, err := r.AddParticipant("A1B2C", "21CS045")
	req.NoError(err)

	p, err := r.RemoveParticipant("A1B2C", "21CS045")
	req.NoError(err)
	req.Equal("21CS045", p.RollNumber)

	_, err = r.RemoveParticipant("A1B2C", "21CS045")
	req.ErrorIs(err, domain.ErrNotInRoom)
}

func TestRooms_ListNewestFirst(t *testing.T) {
	req := require.New(t)
	r := NewRooms()

	base := time.Now()
	req.NoError(r.Create(domain.Room{ID: "AAAAA", Name: "old", CreatedAt: base.Add(-time.Hour)}))
	req.NoError(r.Create(domain.Room{ID: "BBBBB", Name: "new", CreatedAt: base}))

	rooms := r.List()
	req.Len(rooms, 2)
	req.Equal("BBBBB", rooms[0].ID)
	req.Equal("AAAAA", rooms[1].ID)
}

func TestRooms_GetReturnsCopy(t *testing.T) {
	req := require.New(t)
	r := NewRooms()

	req.NoError(r.Create(domain.Room{ID: "A1B2C", Name: "Algebra101"}))
	_, err := r.AddParticipant("A1B2C", "21CS045")
	req.NoError(err)

	room, err := r.Get("A1B2C")
	req.NoError(err)
	room.Participants[0].RollNumber = "mutated"

	again, err := r.Get("A1B2C")
	req.NoError(err)
	req.Equal("21CS045", again.Participants[0].RollNumber)
}

func TestRooms_ConcurrentAddParticipant(t *testing.T) {
	req := require.New(t)
	r := NewRooms()

	req.NoError(r.Create(domain.Room{ID: "A1B2C", Name: "Algebra101"}))

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := r.AddParticipant("A1B2C", fmt.Sprintf("roll-%03d", i))
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	room, err := r.Get("A1B2C")
	req.NoError(err)
	req.Len(room.Participants, n)
}
