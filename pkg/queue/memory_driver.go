package queue

import (
	"context"
	"errors"
)

// ErrQueueFull is returned by the in-memory driver when its buffer is at
// capacity, instead of blocking the dispatching request.
var ErrQueueFull = errors.New("queue: memory buffer full")

// MemoryDriver is an in-process, channel-backed queue driver. Suited to
// development and testing; not durable across restarts.
type MemoryDriver struct {
	ch chan []byte
}

// NewMemoryDriver creates an in-memory queue buffering up to 1024 jobs.
func NewMemoryDriver() *MemoryDriver {
	return NewMemoryDriverSize(1024)
}

// NewMemoryDriverSize creates an in-memory queue with a custom buffer.
func NewMemoryDriverSize(n int) *MemoryDriver {
	return &MemoryDriver{ch: make(chan []byte, n)}
}

func (d *MemoryDriver) Push(payload []byte) error {
	select {
	case d.ch <- payload:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload := <-d.ch:
		return payload, nil
	}
}

// Len reports how many jobs are waiting.
func (d *MemoryDriver) Len() int { return len(d.ch) }
