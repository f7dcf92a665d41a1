package registry

import (
	"sync"
	"time"

	"github.com/proctorhub/room-service/internal/domain"
)

// Logs holds per-room append-only log sequences. Buffers are created
// lazily on first write and live for the process lifetime, independent
// of the room registry: appends after room deletion still land.
type Logs struct {
	mu    sync.RWMutex
	rooms map[string]*logBuffer
}

type logBuffer struct {
	mu      sync.Mutex
	entries []domain.LogEntry
}

func NewLogs() *Logs {
	return &Logs{rooms: make(map[string]*logBuffer)}
}

// Append stores the entry at the end of the room's sequence, stamping
// server time when the entry carries none, and returns the stored entry.
func (l *Logs) Append(roomID string, entry domain.LogEntry) domain.LogEntry {
	l.mu.Lock()
	buf, ok := l.rooms[roomID]
	if !ok {
		buf = &logBuffer{}
		l.rooms[roomID] = buf
	}
	l.mu.Unlock()

	entry.RoomID = roomID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	buf.mu.Lock()
	defer buf.mu.Unlock()
	buf.entries = append(buf.entries, entry)
	return entry
}

// Snapshot returns all entries held for the room in arrival order.
func (l *Logs) Snapshot(roomID string) []domain.LogEntry {
	l.mu.RLock()
	buf, ok := l.rooms[roomID]
	l.mu.RUnlock()
	if !ok {
		return nil
	}

	buf.mu.Lock()
	defer buf.mu.Unlock()
	out := make([]domain.LogEntry, len(buf.entries))
	copy(out, buf.entries)
	return out
}
