package event

import (
	"time"

	"github.com/viant/clasp/internal/clock"
)

// Context identifies where in the engine an event originated.
type Context struct {
	PolicyID  string `json:"policyID,omitempty"`
	Action    string `json:"action,omitempty"`
	EventType string `json:"eventType"`
}

// Event is the generic envelope every published payload travels in.
type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

// NewEvent wraps data into an envelope.
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
