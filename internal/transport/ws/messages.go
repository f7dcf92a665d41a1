package ws

import (
	"time"

	"github.com/proctorhub/room-service/internal/transport/wire"
)

// Control message types on the group channel. Domain events arrive with
// their own type tags (see the wire package).
const (
	TypeJoin    = "join"    // client -> server: enter a room group
	TypeState   = "state"   // server -> client: participant snapshot on join
	TypeMessage = "message" // client -> server -> room: free-form relay
	TypeError   = "error"   // server -> client: declined operation
)

// Message is the channel's framing, shared with the push stream.
type Message = wire.Envelope

type JoinPayload struct {
	RoomID string `json:"room_id"`
}

type StatePayload struct {
	RoomID       string                 `json:"room_id"`
	Participants []ParticipantStateItem `json:"participants"`
}

type ParticipantStateItem struct {
	RollNumber string    `json:"roll_number"`
	JoinedAt   time.Time `json:"joined_at"`
}

type RelayPayload struct {
	RoomID  string `json:"room_id"`
	Message string `json:"message"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
