package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/proctorhub/room-service/internal/domain"
	"github.com/proctorhub/room-service/internal/fanout"
	"github.com/proctorhub/room-service/internal/registry"
)

const (
	roomIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	roomIDLength   = 5
	roomIDAttempts = 10
)

type RoomService struct {
	rooms  *registry.Rooms
	engine *fanout.Engine
}

func NewRoomService(rooms *registry.Rooms, engine *fanout.Engine) *RoomService {
	return &RoomService{rooms: rooms, engine: engine}
}

// CreateRoom registers a room under a fresh 5-character code and
// announces it on the lobby group.
func (s *RoomService) CreateRoom(ctx context.Context, name string) (domain.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Room{}, domain.ErrEmptyRoomName
	}

	room := domain.Room{
		Name:      name,
		CreatedAt: time.Now(),
	}

	// Random ids can collide; retry against the registry instead of
	// trusting the draw.
	var created bool
	for i := 0; i < roomIDAttempts; i++ {
		id, err := generateRoomID()
		if err != nil {
			return domain.Room{}, fmt.Errorf("generate room id: %w", err)
		}
		room.ID = id
		if err := s.rooms.Create(room); err != nil {
			if errors.Is(err, domain.ErrRoomExists) {
				continue
			}
			return domain.Room{}, err
		}
		created = true
		break
	}
	if !created {
		return domain.Room{}, fmt.Errorf("room id space exhausted after %d attempts", roomIDAttempts)
	}

	s.engine.Publish(domain.RoomCreatedEvent(&room))
	return room, nil
}

func (s *RoomService) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	return s.rooms.Get(id)
}

func (s *RoomService) ListRooms(ctx context.Context) []domain.Room {
	return s.rooms.List()
}

// ValidateRoom reports whether the id names a live room.
func (s *RoomService) ValidateRoom(ctx context.Context, id string) error {
	if !s.rooms.Exists(id) {
		return domain.ErrRoomNotFound
	}
	return nil
}

// DeleteRoom removes the room, tells its observers to tear down, then
// drops their subscriptions. Order matters: the deleted event must reach
// group members before they are detached.
func (s *RoomService) DeleteRoom(ctx context.Context, id string) (domain.Room, error) {
	room, err := s.rooms.Delete(id)
	if err != nil {
		return domain.Room{}, err
	}

	s.engine.Publish(domain.RoomDeletedEvent(&room))
	s.engine.DropRoom(id)
	return room, nil
}

func generateRoomID() (string, error) {
	buf := make([]byte, roomIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = roomIDAlphabet[int(b)%len(roomIDAlphabet)]
	}
	return string(buf), nil
}
