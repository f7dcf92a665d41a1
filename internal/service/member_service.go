package service

import (
	"context"
	"strings"

	"github.com/proctorhub/room-service/internal/domain"
	"github.com/proctorhub/room-service/internal/fanout"
	"github.com/proctorhub/room-service/internal/registry"
)

type MemberService struct {
	rooms  *registry.Rooms
	engine *fanout.Engine
}

func NewMemberService(rooms *registry.Rooms, engine *fanout.Engine) *MemberService {
	return &MemberService{rooms: rooms, engine: engine}
}

// AddParticipant records a validated roll number against the room and
// notifies its observers. A roll number already present is rejected, so
// re-validation of a joined participant is a declined operation rather
// than a silent duplicate.
func (s *MemberService) AddParticipant(ctx context.Context, roomID, rollNumber string) (domain.Participant, error) {
	rollNumber = strings.TrimSpace(rollNumber)
	if rollNumber == "" {
		return domain.Participant{}, domain.ErrEmptyRollNumber
	}

	p, err := s.rooms.AddParticipant(roomID, rollNumber)
	if err != nil {
		return domain.Participant{}, err
	}

	s.engine.Publish(domain.ParticipantJoinedEvent(&p))
	return p, nil
}

// RemoveParticipant drops the roll number from the room and notifies
// its observers.
func (s *MemberService) RemoveParticipant(ctx context.Context, roomID, rollNumber string) error {
	p, err := s.rooms.RemoveParticipant(roomID, rollNumber)
	if err != nil {
		return err
	}

	s.engine.Publish(domain.ParticipantLeftEvent(&p))
	return nil
}

func (s *MemberService) ListParticipants(ctx context.Context, roomID string) ([]domain.Participant, error) {
	return s.rooms.ListParticipants(roomID)
}
