package fanout

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/proctorhub/room-service/internal/domain"
)

// fakeHandle records deliveries; it can be told to fail.
type fakeHandle struct {
	mu        sync.Mutex
	delivered []domain.Event
	closed    bool
	failSend  bool
}

func (f *fakeHandle) Deliver(evt domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSend {
		return errors.New("peer gone")
	}
	f.delivered = append(f.delivered, evt)
	return nil
}

func (f *fakeHandle) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeHandle) events() []domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Event, len(f.delivered))
	copy(out, f.delivered)
	return out
}

func (f *fakeHandle) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func TestTable_AttachDetach(t *testing.T) {
	req := require.New(t)
	tbl := NewTable()

	id := tbl.Attach("A1B2C", KindGroup, &fakeHandle{})
	req.NotEmpty(id)
	req.Equal(1, tbl.Count("A1B2C"))

	tbl.Detach(id)
	req.Equal(0, tbl.Count("A1B2C"))

	// idempotent
	tbl.Detach(id)
	tbl.Detach("no-such-id")
	req.Equal(0, tbl.Count("A1B2C"))
}

func TestTable_ForEachVisitsAttached(t *testing.T) {
	req := require.New(t)
	tbl := NewTable()

	tbl.Attach("A1B2C", KindGroup, &fakeHandle{})
	tbl.Attach("A1B2C", KindStream, &fakeHandle{})
	tbl.Attach("ZZZZZ", KindGroup, &fakeHandle{})

	var visited int
	tbl.ForEach("A1B2C", func(sub *Subscriber) {
		req.Equal("A1B2C", sub.RoomID)
		visited++
	})
	req.Equal(2, visited)
}

func TestTable_ForEachSkipsDetachedDuringIteration(t *testing.T) {
	req := require.New(t)
	tbl := NewTable()

	ids := []string{
		tbl.Attach("A1B2C", KindGroup, &fakeHandle{}),
		tbl.Attach("A1B2C", KindGroup, &fakeHandle{}),
		tbl.Attach("A1B2C", KindGroup, &fakeHandle{}),
	}

	var visited []string
	tbl.ForEach("A1B2C", func(sub *Subscriber) {
		visited = append(visited, sub.ID)
		// detach everyone else on the first visit
		for _, id := range ids {
			if id != sub.ID {
				tbl.Detach(id)
			}
		}
	})

	req.Len(visited, 1)
	req.Equal(1, tbl.Count("A1B2C"))
}

func TestTable_ForEachEmptyRoom(t *testing.T) {
	tbl := NewTable()
	tbl.ForEach("ZZZZZ", func(sub *Subscriber) {
		t.Fatal("must not be called")
	})
}

func TestTable_DropRoomClosesHandles(t *testing.T) {
	req := require.New(t)
	tbl := NewTable()

	h1 := &fakeHandle{}
	h2 := &fakeHandle{}
	dropped := tbl.Attach("A1B2C", KindGroup, h1)
	tbl.Attach("A1B2C", KindStream, h2)
	tbl.Attach("ZZZZZ", KindGroup, &fakeHandle{})

	tbl.DropRoom("A1B2C")

	req.Equal(0, tbl.Count("A1B2C"))
	req.True(h1.isClosed())
	req.True(h2.isClosed())
	req.Equal(1, tbl.Count("ZZZZZ"))

	// detaching a dropped subscriber later is still a no-op
	tbl.Detach(dropped)
	req.Equal(1, tbl.Count("ZZZZZ"))
}

func TestTable_ConcurrentAttachDetachDuringForEach(t *testing.T) {
	tbl := NewTable()

	for i := 0; i < 20; i++ {
		tbl.Attach("A1B2C", KindGroup, &fakeHandle{})
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				id := tbl.Attach("A1B2C", KindGroup, &fakeHandle{})
				tbl.Detach(id)
			}
		}
	}()

	for i := 0; i < 100; i++ {
		tbl.ForEach("A1B2C", func(sub *Subscriber) {
			_ = sub.Handle.Deliver(domain.Event{Type: domain.EventLogAppended, RoomID: "A1B2C", Log: &domain.LogEntry{}})
		})
	}

	close(stop)
	wg.Wait()
}
