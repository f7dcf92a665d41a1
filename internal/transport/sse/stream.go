package sse

import (
	"errors"
	"sync"
	"time"

	"github.com/proctorhub/room-service/internal/domain"
)

var (
	errStreamClosed = errors.New("stream closed")
	errSlowConsumer = errors.New("stream consumer too slow")
)

// stream is the push side of one long-lived event connection. Deliver
// hands the event to the writer goroutine; if the writer cannot drain
// within sendTimeout the subscriber is reported dead so the fanout
// engine detaches it instead of stalling the room.
type stream struct {
	events      chan domain.Event
	done        chan struct{}
	closeOnce   sync.Once
	sendTimeout time.Duration
}

func newStream(sendTimeout time.Duration) *stream {
	return &stream{
		events:      make(chan domain.Event, 16),
		done:        make(chan struct{}),
		sendTimeout: sendTimeout,
	}
}

// Deliver implements fanout.Handle.
func (s *stream) Deliver(evt domain.Event) error {
	select {
	case <-s.done:
		return errStreamClosed
	default:
	}

	timer := time.NewTimer(s.sendTimeout)
	defer timer.Stop()

	select {
	case s.events <- evt:
		return nil
	case <-s.done:
		return errStreamClosed
	case <-timer.C:
		return errSlowConsumer
	}
}

// Close implements fanout.Handle. It wakes the writer goroutine, which
// tears the HTTP handler down.
func (s *stream) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}
