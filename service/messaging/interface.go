package messaging

import (
	"context"
)

// Vendor names a queue implementation ("memory" or "fs").
type Vendor string

// Queue is the abstract message queue event publication runs on. The memory
// vendor backs tests and embedded use; the fs vendor doubles as a durable
// audit journal for confirmations.
type Queue[T any] interface {
	// Publish enqueues a payload.
	Publish(ctx context.Context, t *T) error

	// Consume retrieves a single message from the queue.
	Consume(ctx context.Context) (Message[T], error)
}

// Message is a payload retrieved from a queue together with its settlement
// controls.
type Message[T any] interface {
	// T returns the payload.
	T() *T

	// Ack marks the message processed.
	Ack() error

	// Nack reports a processing failure; vendors retry or park the message.
	Nack(err error) error
}
