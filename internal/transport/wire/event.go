// Package wire defines the framing shared by both live transports: a
// type-tagged envelope with one fixed payload shape per event kind.
package wire

import (
	"time"

	"github.com/proctorhub/room-service/internal/domain"
)

type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type RoomPayload struct {
	RoomID    string    `json:"room_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type ParticipantPayload struct {
	RoomID     string    `json:"room_id"`
	RollNumber string    `json:"roll_number"`
	JoinedAt   time.Time `json:"joined_at"`
}

type LogPayload struct {
	RoomID     string    `json:"room_id"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	RollNumber string    `json:"roll_number,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// FromEvent frames a domain event for the wire.
func FromEvent(evt domain.Event) Envelope {
	env := Envelope{Type: string(evt.Type)}

	switch evt.Type {
	case domain.EventRoomCreated, domain.EventRoomDeleted:
		env.Payload = RoomPayload{
			RoomID:    evt.Room.ID,
			Name:      evt.Room.Name,
			CreatedAt: evt.Room.CreatedAt,
		}
	case domain.EventParticipantJoined, domain.EventParticipantLeft:
		env.Payload = ParticipantPayload{
			RoomID:     evt.Participant.RoomID,
			RollNumber: evt.Participant.RollNumber,
			JoinedAt:   evt.Participant.JoinedAt,
		}
	case domain.EventLogAppended:
		env.Payload = LogPayload{
			RoomID:     evt.Log.RoomID,
			Message:    evt.Log.Message,
			Status:     evt.Log.Status,
			RollNumber: evt.Log.RollNumber,
			CreatedAt:  evt.Log.CreatedAt,
		}
	}
	return env
}
