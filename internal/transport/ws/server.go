package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/proctorhub/room-service/internal/domain"
	"github.com/proctorhub/room-service/internal/fanout"
	"github.com/proctorhub/room-service/internal/registry"
)

type Server struct {
	upgrader websocket.Upgrader
	table    *fanout.Table
	rooms    *registry.Rooms

	pingEvery   time.Duration
	sendTimeout time.Duration
}

func NewServer(table *fanout.Table, rooms *registry.Rooms, pingEvery, sendTimeout time.Duration) *Server {
	if pingEvery <= 0 {
		pingEvery = 15 * time.Second
	}
	if sendTimeout <= 0 {
		sendTimeout = 5 * time.Second
	}
	return &Server{
		table: table,
		rooms: rooms,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery:   pingEvery,
		sendTimeout: sendTimeout,
	}
}

// WS endpoint: GET /ws. The first frame must be a join naming a room id
// (or the lobby); the connection then receives that group's events until
// either side closes.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	roomID, err := s.awaitJoin(conn)
	if err != nil {
		slog.Debug("ws join failed", "err", err)
		_ = conn.Close()
		return
	}

	c := newConn(conn, roomID, s.sendTimeout)
	if roomID != domain.LobbyRoomID && !s.rooms.Exists(roomID) {
		_ = c.SendMessage(Message{Type: TypeError, Payload: ErrorPayload{Error: "room not found"}})
		_ = c.Close()
		return
	}

	subID := s.table.Attach(roomID, fanout.KindGroup, c)
	defer func() {
		s.table.Detach(subID)
		_ = c.Close()
	}()

	if roomID != domain.LobbyRoomID {
		if err := s.sendState(c); err != nil {
			slog.Warn("ws send initial state failed", "room", roomID, "err", err)
		}
	}

	go s.writeLoop(r.Context(), c)
	s.readLoop(c)
}

// awaitJoin reads the first frame and extracts the room id.
func (s *Server) awaitJoin(conn *websocket.Conn) (string, error) {
	conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	_, data, err := conn.ReadMessage()
	if err != nil {
		return "", err
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return "", err
	}
	if msg.Type != TypeJoin {
		return "", errExpectedJoin
	}

	var p JoinPayload
	if err := decode(msg.Payload, &p); err != nil {
		return "", err
	}
	if p.RoomID == "" {
		return "", errExpectedJoin
	}
	return p.RoomID, nil
}

var errExpectedJoin = errors.New("first message must be a join with a room id")

func (s *Server) sendState(c *Conn) error {
	room, err := s.rooms.Get(c.roomID)
	if err != nil {
		return err
	}

	items := make([]ParticipantStateItem, 0, len(room.Participants))
	for _, p := range room.Participants {
		items = append(items, ParticipantStateItem{
			RollNumber: p.RollNumber,
			JoinedAt:   p.JoinedAt,
		})
	}

	return c.SendMessage(Message{
		Type: TypeState,
		Payload: StatePayload{
			RoomID:       c.roomID,
			Participants: items,
		},
	})
}

func (s *Server) readLoop(c *Conn) {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(1 << 20)
	c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case TypeMessage:
			var p RelayPayload
			if decode(msg.Payload, &p) != nil || p.Message == "" {
				continue
			}
			p.RoomID = c.roomID
			s.relay(c.roomID, Message{Type: TypeMessage, Payload: p})
		default:
			// ignore
		}
	}
}

// relay forwards a raw channel message to the room's group members.
// Push streams carry domain events only.
func (s *Server) relay(roomID string, msg Message) {
	s.table.ForEach(roomID, func(sub *fanout.Subscriber) {
		if sub.Kind != fanout.KindGroup {
			return
		}
		gc, ok := sub.Handle.(*Conn)
		if !ok {
			return
		}
		if err := gc.SendMessage(msg); err != nil {
			slog.Debug("ws relay failed", "room", roomID, "subscriber", sub.ID, "err", err)
		}
	})
}

func (s *Server) writeLoop(ctx context.Context, c *Conn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.sendTimeout))
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		}
	}
}

func decode(payload any, dst any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, dst)
}
