package service

import (
	"context"
	"strings"

	"github.com/proctorhub/room-service/internal/domain"
	"github.com/proctorhub/room-service/internal/fanout"
	"github.com/proctorhub/room-service/internal/registry"
)

type LogService struct {
	logs   *registry.Logs
	engine *fanout.Engine
}

func NewLogService(logs *registry.Logs, engine *fanout.Engine) *LogService {
	return &LogService{logs: logs, engine: engine}
}

// Append buffers the entry and fans it out to the room's observers.
// The buffer outlives the room record, so appends for a deleted room
// are accepted; with its subscribers gone the fan-out is a no-op.
func (s *LogService) Append(ctx context.Context, roomID string, entry domain.LogEntry) (domain.LogEntry, error) {
	entry.Message = strings.TrimSpace(entry.Message)
	if entry.Message == "" {
		return domain.LogEntry{}, domain.ErrEmptyLogMessage
	}

	stored := s.logs.Append(roomID, entry)
	s.engine.Publish(domain.LogAppendedEvent(&stored))
	return stored, nil
}

// Snapshot returns the room's buffered entries in arrival order. Late
// joiners fetch this before subscribing; an entry racing the
// subscription may arrive twice and is de-duplicated client-side.
func (s *LogService) Snapshot(ctx context.Context, roomID string) []domain.LogEntry {
	return s.logs.Snapshot(roomID)
}
