package policy

import (
	"sort"
	"sync"

	"github.com/viant/clasp/internal/idgen"
	"github.com/viant/clasp/token"
)

// Policy is the per-asset-type rule registry. It maps action names to the
// set of rule identities required to authorize that action and accumulates
// provisionally spent value until the issuer flushes it. The policy is the
// only long-lived shared object in the subsystem, so every accessor holds
// its lock; the host still serializes whole units of work.
type Policy struct {
	id      string
	spent   *token.Balance
	rules   map[string]map[string]struct{}
	configs map[string]interface{}
	mux     sync.RWMutex
}

// AdminCap is the bearer capability authorizing administration of exactly
// one Policy. It is not tied to an account - any holder may administer the
// referenced policy.
type AdminCap struct {
	id     string
	policy string
}

// ID returns the capability object identity.
func (c *AdminCap) ID() string { return c.id }

// Policy returns the identity of the policy this capability administers.
func (c *AdminCap) Policy() string { return c.policy }

// New creates a policy together with its one admin capability. The treasury
// capability serves as issuer proof and is latched so that at most one
// policy/cap pair exists per asset type.
func New(treasury *token.TreasuryCap) (*Policy, *AdminCap, error) {
	if err := treasury.ClaimPolicy(); err != nil {
		return nil, nil, err
	}
	p := &Policy{
		id:      idgen.New(),
		spent:   token.ZeroBalance(),
		rules:   make(map[string]map[string]struct{}),
		configs: make(map[string]interface{}),
	}
	cap := &AdminCap{id: idgen.New(), policy: p.id}
	return p, cap, nil
}

// ID returns the policy object identity.
func (p *Policy) ID() string { return p.id }

// SpentValue returns the amount accumulated in the spent ledger and not yet
// flushed to the issuer.
func (p *Policy) SpentValue() uint64 {
	p.mux.RLock()
	defer p.mux.RUnlock()
	return p.spent.Value()
}

// IsAllowed reports whether the action is registered on the policy. A
// registered action with an empty rule set is permitted unconditionally.
func (p *Policy) IsAllowed(action string) bool {
	p.mux.RLock()
	defer p.mux.RUnlock()
	_, ok := p.rules[action]
	return ok
}

// Rules returns the rule identities required for the action, sorted. The
// second result distinguishes an unregistered action from one registered
// with no rules.
func (p *Policy) Rules(action string) ([]string, bool) {
	p.mux.RLock()
	defer p.mux.RUnlock()
	required, ok := p.rules[action]
	if !ok {
		return nil, false
	}
	keys := make([]string, 0, len(required))
	for key := range required {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, true
}

// Actions returns the registered action names, sorted.
func (p *Policy) Actions() []string {
	p.mux.RLock()
	defer p.mux.RUnlock()
	actions := make([]string, 0, len(p.rules))
	for action := range p.rules {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	return actions
}

// authorize verifies the capability references this policy.
func (p *Policy) authorize(cap *AdminCap) error {
	if cap == nil || cap.policy != p.id {
		return ErrNotAuthorized
	}
	return nil
}
