package emitter

import (
	"context"
	"errors"
	"sync"

	"github.com/sayan2306/distributed-idgen/internal/idgen"
)

var ErrBusClosed = errors.New("id bus is closed")

type Bus struct {
	mu     sync.RWMutex
	closed bool
	ch     chan idgen.ID
}

func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}

	return &Bus{
		ch: make(chan idgen.ID, buffer),
	}
}

func (b *Bus) Publish(ctx context.Context, id idgen.ID) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.ch <- id:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bus) Subscribe() <-chan idgen.ID {
	return b.ch
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	close(b.ch)
}
