package event

import (
	"context"
	"errors"
	"log"
	"time"
)

// Listener consumes events of one payload type in the background and hands
// them to a handler.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewListener creates a stopped listener.
func NewListener[T any](publisher *Publisher[T], handler func(*Event[T])) *Listener[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Stop ends the background consumption loop.
func (l *Listener[T]) Stop() {
	l.cancel()
}

// Start launches the background consumption loop. Vendors whose Consume
// returns no message on an empty queue are polled.
func (l *Listener[T]) Start() {
	go func() {
		for {
			event, err := l.publisher.Consume(l.ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return
				}
				log.Printf("error consuming event: %v", err)
			}
			if event == nil {
				select {
				case <-l.ctx.Done():
					return
				case <-time.After(50 * time.Millisecond):
				}
				continue
			}
			l.handler(event)
		}
	}()
}
