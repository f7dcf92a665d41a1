// Package sse serves the one-way push stream: a text/event-stream
// response carrying one self-delimited frame per domain event.
package sse

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/proctorhub/room-service/internal/domain"
	"github.com/proctorhub/room-service/internal/fanout"
	"github.com/proctorhub/room-service/internal/registry"
	"github.com/proctorhub/room-service/internal/transport/wire"
)

type Server struct {
	table *fanout.Table
	rooms *registry.Rooms

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
		table:       table,
		rooms:       rooms,
		pingEvery:   pingEvery,
		sendTimeout: sendTimeout,
	}
}

// Stream endpoint: GET /rooms/{id}/events. The subscription lives until
// the client goes away, the room is dropped, or a write fails; all three
// end with the subscriber detached.
func (s *Server) HandleStream(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	if roomID != domain.LobbyRoomID && !s.rooms.Exists(roomID) {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	conn := newStream(s.sendTimeout)
	subID := s.table.Attach(roomID, fanout.KindStream, conn)
	defer func() {
		s.table.Detach(subID)
		_ = conn.Close()
	}()

	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case evt := <-conn.events:
			if err := writeFrame(w, evt); err != nil {
				slog.Debug("sse write failed", "room", roomID, "subscriber", subID, "err", err)
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		case <-conn.done:
			return
		}
	}
}

// writeFrame emits one event as an SSE block: the event name is the
// domain tag, the data line is the JSON payload for that tag.
func writeFrame(w http.ResponseWriter, evt domain.Event) error {
	env := wire.FromEvent(evt)
	data, err := json.Marshal(env.Payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", env.Type, data)
	return err
}
