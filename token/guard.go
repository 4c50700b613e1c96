package token

import (
	"fmt"
	"sync"
)

// Guard is the runtime stand-in for linear consumption: the host language
// cannot reject code paths that drop an ActionRequest, so a unit of work
// tracks every request it opens and asserts at the end that each one was
// consumed by exactly one confirmation path.
type Guard struct {
	mu   sync.Mutex
	open []*ActionRequest
}

// NewGuard returns an empty guard for one unit of work.
func NewGuard() *Guard {
	return &Guard{}
}

// Track registers the request with the guard and returns it for chaining.
func (g *Guard) Track(r *ActionRequest) *ActionRequest {
	if r == nil {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.open = append(g.open, r)
	return r
}

// Outstanding returns the tracked requests that were not yet consumed.
// Consumed requests are dropped from the guard so a long-lived guard does
// not retain every request ever opened.
func (g *Guard) Outstanding() []*ActionRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	var pending []*ActionRequest
	for _, r := range g.open {
		if !r.consumed {
			pending = append(pending, r)
		}
	}
	g.open = append(g.open[:0], pending...)
	return pending
}

// AssertResolved fails with ErrUnresolvedRequest when any tracked request
// was dropped without confirmation.
func (g *Guard) AssertResolved() error {
	pending := g.Outstanding()
	if len(pending) == 0 {
		return nil
	}
	return fmt.Errorf("%w: action %q", ErrUnresolvedRequest, pending[0].action)
}
