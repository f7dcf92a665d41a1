package service

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/proctorhub/room-service/internal/domain"
	"github.com/proctorhub/room-service/internal/fanout"
	"github.com/proctorhub/room-service/internal/registry"
)

// recorder implements fanout.Handle and keeps every delivered event.
type recorder struct {
	mu     sync.Mutex
	events []domain.Event
	closed bool
}

func (r *recorder) Deliver(evt domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recorder) all() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Event, len(r.events))
	copy(out, r.events)
	return out
}

type fixture struct {
	rooms  *registry.Rooms
	logs   *registry.Logs
	table  *fanout.Table
	engine *fanout.Engine

	roomSvc   *RoomService
	memberSvc *MemberService
	logSvc    *LogService
}

func newFixture() *fixture {
	rooms := registry.NewRooms()
	logs := registry.NewLogs()
	table := fanout.NewTable()
	engine := fanout.NewEngine(table)

	return &fixture{
		rooms:     rooms,
		logs:      logs,
		table:     table,
		engine:    engine,
		roomSvc:   NewRoomService(rooms, engine),
		memberSvc: NewMemberService(rooms, engine),
		logSvc:    NewLogService(logs, engine),
	}
}

var roomIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{5}$`)

func TestRoomService_CreateRoom(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()

	room, err := f.roomSvc.CreateRoom(ctx, "Algebra101")
	req.NoError(err)
	req.Regexp(roomIDPattern, room.ID)
	req.Equal("Algebra101", room.Name)

	// immediately visible
	got, err := f.roomSvc.GetRoom(ctx, room.ID)
	req.NoError(err)
	req.Equal(room.ID, got.ID)
}

func TestRoomService_CreateRoomEmptyName(t *testing.T) {
	f := newFixture()

	_, err := f.roomSvc.CreateRoom(context.Background(), "   ")
	require.ErrorIs(t, err, domain.ErrEmptyRoomName)
}

func TestRoomService_CreateRoomAnnouncesOnLobby(t *testing.T) {
	req := require.New(t)
	f := newFixture()

	lobby := &recorder{}
	f.table.Attach(domain.LobbyRoomID, fanout.KindGroup, lobby)

	room, err := f.roomSvc.CreateRoom(context.Background(), "Algebra101")
	req.NoError(err)

	events := lobby.all()
	req.Len(events, 1)
	req.Equal(domain.EventRoomCreated, events[0].Type)
	req.Equal(room.ID, events[0].Room.ID)
	req.Equal("Algebra101", events[0].Room.Name)
}

func TestRoomService_ValidateRoom(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()

	room, err := f.roomSvc.CreateRoom(ctx, "Algebra101")
	req.NoError(err)

	req.NoError(f.roomSvc.ValidateRoom(ctx, room.ID))
	req.ErrorIs(f.roomSvc.ValidateRoom(ctx, "ZZZZZ"), domain.ErrRoomNotFound)
}

func TestRoomService_DeleteRoomNotifiesThenDetaches(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()

	room, err := f.roomSvc.CreateRoom(ctx, "Algebra101")
	req.NoError(err)

	member := &recorder{}
	f.table.Attach(room.ID, fanout.KindGroup, member)

	_, err = f.roomSvc.DeleteRoom(ctx, room.ID)
	req.NoError(err)

	events := member.all()
	req.Len(events, 1)
	req.Equal(domain.EventRoomDeleted, events[0].Type)
	req.Equal(0, f.table.Count(room.ID))

	// appends for the dead room are buffered but reach nobody
	_, err = f.logSvc.Append(ctx, room.ID, domain.LogEntry{Message: "after delete", Status: "ok"})
	req.NoError(err)
	req.Len(member.all(), 1)
	req.Len(f.logSvc.Snapshot(ctx, room.ID), 1)
}

func TestRoomService_DeleteMissingRoom(t *testing.T) {
	f := newFixture()

	_, err := f.roomSvc.DeleteRoom(context.Background(), "ZZZZZ")
	require.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestMemberService_AddParticipantFansOut(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()

	room, err := f.roomSvc.CreateRoom(ctx, "Algebra101")
	req.NoError(err)

	obs1 := &recorder{}
	obs2 := &recorder{}
	f.table.Attach(room.ID, fanout.KindGroup, obs1)
	f.table.Attach(room.ID, fanout.KindGroup, obs2)

	p, err := f.memberSvc.AddParticipant(ctx, room.ID, "21CS045")
	req.NoError(err)
	req.Equal("21CS045", p.RollNumber)

	for _, obs := range []*recorder{obs1, obs2} {
		events := obs.all()
		req.Len(events, 1)
		req.Equal(domain.EventParticipantJoined, events[0].Type)
		req.Equal("21CS045", events[0].Participant.RollNumber)
	}

	got, err := f.roomSvc.GetRoom(ctx, room.ID)
	req.NoError(err)
	req.Len(got.Participants, 1)
}

func TestMemberService_AddParticipantMissingRoom(t *testing.T) {
	req := require.New(t)
	f := newFixture()

	lobby := &recorder{}
	f.table.Attach(domain.LobbyRoomID, fanout.KindGroup, lobby)

	_, err := f.memberSvc.AddParticipant(context.Background(), "ZZZZZ", "21CS045")
	req.ErrorIs(err, domain.ErrRoomNotFound)

	// declined writes never fan out
	req.Empty(lobby.all())
}

func TestMemberService_RemoveParticipant(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()

	room, err := f.roomSvc.CreateRoom(ctx, "Algebra101")
	req.NoError(err)
	_, err = f.memberSvc.AddParticipant(ctx, room.ID, "21CS045")
	req.NoError(err)

	obs := &recorder{}
	f.table.Attach(room.ID, fanout.KindGroup, obs)

	req.NoError(f.memberSvc.RemoveParticipant(ctx, room.ID, "21CS045"))

	events := obs.all()
	req.Len(events, 1)
	req.Equal(domain.EventParticipantLeft, events[0].Type)
}

func TestLogService_AppendFansOutAndSnapshots(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()

	room, err := f.roomSvc.CreateRoom(ctx, "Algebra101")
	req.NoError(err)

	obs := &recorder{}
	f.table.Attach(room.ID, fanout.KindStream, obs)

	entry, err := f.logSvc.Append(ctx, room.ID, domain.LogEntry{
		Message:    "checked in",
		Status:     "ok",
		RollNumber: "21CS045",
	})
	req.NoError(err)
	req.False(entry.CreatedAt.IsZero())

	events := obs.all()
	req.Len(events, 1)
	req.Equal(domain.EventLogAppended, events[0].Type)
	req.Equal("checked in", events[0].Log.Message)

	snap := f.logSvc.Snapshot(ctx, room.ID)
	req.Len(snap, 1)
	req.Equal("checked in", snap[0].Message)
}

func TestLogService_AppendEmptyMessage(t *testing.T) {
	f := newFixture()

	_, err := f.logSvc.Append(context.Background(), "A1B2C", domain.LogEntry{Status: "ok"})
	require.ErrorIs(t, err, domain.ErrEmptyLogMessage)
}

func TestGenerateRoomID(t *testing.T) {
	req := require.New(t)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id, err := generateRoomID()
		req.NoError(err)
		req.Regexp(roomIDPattern, id)
		seen[id] = struct{}{}
	}
	// 100 draws from a 62^5 space should not all collapse
	req.Greater(len(seen), 90)
}
