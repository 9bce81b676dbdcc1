// Package broadcast provides a minimal in-process fan-out primitive used to
// deliver auth-state change notifications to any number of listeners.
package broadcast

import (
	"context"
	"sync"
)

// Message wraps data of type T for type-safe broadcasting.
type Message[T any] struct {
	Data T
}

// Subscriber receives messages from a Broadcaster.
// Implementations must be safe for concurrent use.
type Subscriber[T any] interface {
	// Receive returns the channel delivering broadcast messages.
	Receive(ctx context.Context) <-chan Message[T]

	// Close releases the subscription. After Close the receive channel is
	// closed and no more messages arrive. Close is idempotent.
	Close() error
}

// Broadcaster sends messages to multiple subscribers. Slow consumers have
// messages dropped rather than blocking the sender.
type Broadcaster[T any] interface {
	// Subscribe creates a subscriber receiving all subsequent messages.
	// Cancelling the context releases the subscription automatically.
	Subscribe(ctx context.Context) Subscriber[T]

	// Broadcast delivers a message to every active subscriber.
	Broadcast(ctx context.Context, msg Message[T]) error

	// Close shuts down the broadcaster and closes all subscribers.
	Close() error
}

type subscriber[T any] struct {
	ch     chan Message[T]
	closed bool
	mu     sync.RWMutex
}

func newSubscriber[T any](bufferSize int) *subscriber[T] {
	return &subscriber[T]{
		ch: make(chan Message[T], bufferSize),
	}
}

func (s *subscriber[T]) Receive(ctx context.Context) <-chan Message[T] {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

// send delivers non-blocking; returns false when the subscriber is closed
// or its buffer is full.
func (s *subscriber[T]) send(msg Message[T]) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}
