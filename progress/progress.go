// Package progress provides a lightweight tracker that keeps aggregated
// request counters (opened, confirmed per path, outstanding) for a single
// engine instance. The tracker instance lives in the context, so every
// component receiving the context can atomically update counters via the
// Delta helper without a global registry.
package progress

import (
	"context"
	"sync"
	"time"
)

// Delta represents an incremental counter change emitted by the engine. The
// fields are signed so they can be either positive or negative.
type Delta struct {
	Opened            int
	ConfirmedByRules  int
	ConfirmedByAdmin  int
	ConfirmedByIssuer int
	Rejected          int
	SpentSettled      uint64
}

// Progress keeps aggregated request counters for one policy. It is safe for
// concurrent use.
type Progress struct {
	PolicyID  string
	StartedAt time.Time

	OpenedRequests    int
	ConfirmedByRules  int
	ConfirmedByAdmin  int
	ConfirmedByIssuer int
	RejectedRequests  int
	SpentSettled      uint64

	sync.Mutex
	onChange func(Progress)
}

// Update applies the supplied delta. If an onChange callback has been
// registered it is invoked with a copy of the updated tracker outside the
// critical section, so the callback can perform slow operations without
// blocking engine internals.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.Lock()
	p.OpenedRequests += d.Opened
	p.ConfirmedByRules += d.ConfirmedByRules
	p.ConfirmedByAdmin += d.ConfirmedByAdmin
	p.ConfirmedByIssuer += d.ConfirmedByIssuer
	p.RejectedRequests += d.Rejected
	p.SpentSettled += d.SpentSettled
	snapshot := *p
	cb := p.onChange
	p.Unlock()
	if cb != nil {
		cb(snapshot)
	}
}

// Outstanding returns the number of opened requests not yet resolved.
func (p *Progress) Outstanding() int {
	if p == nil {
		return 0
	}
	p.Lock()
	defer p.Unlock()
	return p.OpenedRequests - p.ConfirmedByRules - p.ConfirmedByAdmin - p.ConfirmedByIssuer - p.RejectedRequests
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return *p
}

// OnChange registers a callback invoked after every Update. Passing nil
// disables it; subsequent calls overwrite the previous value.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a new Progress tracker, embeds it in a derived
// context and returns both.
func WithNewTracker(ctx context.Context, policyID string, onChange func(Progress)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		PolicyID:  policyID,
		StartedAt: time.Now(),
		onChange:  onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the Progress tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// UpdateCtx looks up the tracker in ctx (if any) and applies the delta.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
