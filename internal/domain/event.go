package domain

// LobbyRoomID is the well-known group observers join to watch room
// lifecycle across the whole service rather than a single room.
const LobbyRoomID = "lobby"

type EventType string

const (
	EventRoomCreated       EventType = "room_created"
	EventRoomDeleted       EventType = "room_deleted"
	EventParticipantJoined EventType = "participant_joined"
	EventParticipantLeft   EventType = "participant_left"
	EventLogAppended       EventType = "log_appended"
)

// Event is the tagged union handed to the fanout engine. Exactly one
// payload pointer is set, matching Type.
type Event struct {
	Type   EventType
	RoomID string

	Room        *Room        // room_created, room_deleted
	Participant *Participant // participant_joined, participant_left
	Log         *LogEntry    // log_appended
}

func RoomCreatedEvent(r *Room) Event {
	return Event{Type: EventRoomCreated, RoomID: r.ID, Room: r}
}

func RoomDeletedEvent(r *Room) Event {
	return Event{Type: EventRoomDeleted, RoomID: r.ID, Room: r}
}

func ParticipantJoinedEvent(p *Participant) Event {
	return Event{Type: EventParticipantJoined, RoomID: p.RoomID, Participant: p}
}

func ParticipantLeftEvent(p *Participant) Event {
	return Event{Type: EventParticipantLeft, RoomID: p.RoomID, Participant: p}
}

func LogAppendedEvent(e *LogEntry) Event {
	return Event{Type: EventLogAppended, RoomID: e.RoomID, Log: e}
}
