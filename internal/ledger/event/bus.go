package event

import (
	"context"
	"errors"
	"sync"

	"github.com/MidasLamb/banking-exercise/internal/ledger/entity"
)

var ErrBusClosed = errors.New("event bus is closed")

// Bus queues account lock notifications between the usecase and the
// consumer. The queue is bounded: Publish waits for room or for ctx.
type Bus struct {
	queue chan entity.AccountLockedEvent

	closeOnce sync.Once
	done      chan struct{}
}

func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}

	return &Bus{
		queue: make(chan entity.AccountLockedEvent, buffer),
		done:  make(chan struct{}),
	}
}

func (b *Bus) Publish(ctx context.Context, ev entity.AccountLockedEvent) error {
	select {
	case <-b.done:
		return ErrBusClosed
	default:
	}

	select {
	case b.queue <- ev:
		return nil
	case <-b.done:
		return ErrBusClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops new publishes. Events already queued can still be received.
func (b *Bus) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}

// receive returns the next queued event. ok is false once the bus is closed
// and the queue is empty.
func (b *Bus) receive() (ev entity.AccountLockedEvent, ok bool) {
	select {
	case ev = <-b.queue:
		return ev, true
	case <-b.done:
	}

	select {
	case ev = <-b.queue:
		return ev, true
	default:
		return ev, false
	}
}
