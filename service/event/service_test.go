package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTypedPublishAndConsume(t *testing.T) {
	service, err := New("memory")
	assert.NoError(t, err)

	publisher, err := PublisherOf[TokenMinted](service)
	assert.NoError(t, err)

	ctx := context.Background()
	err = publisher.Publish(ctx, NewEvent(&Context{EventType: "TokenMinted"}, TokenMinted{Amount: 100, Recipient: "0xalice"}))
	assert.NoError(t, err)

	consumed, err := publisher.Consume(ctx)
	assert.NoError(t, err)
	if assert.NotNil(t, consumed) {
		assert.EqualValues(t, 100, consumed.Data.Amount)
		assert.Equal(t, "0xalice", consumed.Data.Recipient)
		assert.False(t, consumed.CreatedAt.IsZero())
	}
}

func TestTypedListener(t *testing.T) {
	service, err := New("memory")
	assert.NoError(t, err)

	var mu sync.Mutex
	var received []RequestConfirmed
	err = SetListenerOf(service, func(e *Event[RequestConfirmed]) {
		mu.Lock()
		received = append(received, e.Data)
		mu.Unlock()
	})
	assert.NoError(t, err)

	publisher, err := PublisherOf[RequestConfirmed](service)
	assert.NoError(t, err)
	err = publisher.Publish(context.Background(), NewEvent(&Context{EventType: "RequestConfirmed"},
		RequestConfirmed{Action: "transfer", Amount: 50, Initiator: "0xalice", Recipient: "0xbob", Path: PathRules}))
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, "transfer", received[0].Action)
	assert.Equal(t, PathRules, received[0].Path)
	mu.Unlock()
}

func TestUntypedMirror(t *testing.T) {
	service, err := New("memory")
	assert.NoError(t, err)

	var mu sync.Mutex
	var seen []string
	service.SetListener(func(e *Event[any]) {
		mu.Lock()
		seen = append(seen, e.Context.EventType)
		mu.Unlock()
	})

	publisher, err := PublisherOf[PolicyUpdated](service)
	assert.NoError(t, err)
	err = publisher.Publish(context.Background(), NewEvent(&Context{EventType: "PolicyUpdated"},
		PolicyUpdated{Policy: "p1", Action: "transfer", Change: ChangeAllow}))
	assert.NoError(t, err)

	// Every typed event is mirrored onto the untyped queue.
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1 && seen[0] == "PolicyUpdated"
	}, time.Second, 10*time.Millisecond)
}

func TestUnsupportedVendor(t *testing.T) {
	_, err := New("kafka")
	assert.Error(t, err)
}
