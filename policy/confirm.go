package policy

import (
	"fmt"

	"github.com/viant/clasp/token"
)

// Confirmation paths. Exactly one of the four must consume every
// ActionRequest. All checks run before any state changes so that a failed
// confirmation leaves both the request and the policy untouched.

// ConfirmRequest is the ordinary confirmation: the action must be registered
// and every required rule approval must be present on the request. Extra,
// unrequired approvals are tolerated. Requests carrying pending spent value
// must use ConfirmRequestMut instead.
func (p *Policy) ConfirmRequest(r *token.ActionRequest) (*token.Receipt, error) {
	if r.Consumed() {
		return nil, token.ErrRequestConsumed
	}
	if r.HasSpent() {
		return nil, ErrCantConsumeBalance
	}
	if err := p.checkApprovals(r); err != nil {
		return nil, err
	}
	return r.Finish()
}

// ConfirmRequestMut performs the same action and approval checks but also
// settles the request's pending value into the policy's spent ledger. It
// fails with ErrUseImmutableConfirm when the request carries none.
func (p *Policy) ConfirmRequestMut(r *token.ActionRequest) (*token.Receipt, error) {
	if r.Consumed() {
		return nil, token.ErrRequestConsumed
	}
	if !r.HasSpent() {
		return nil, ErrUseImmutableConfirm
	}
	if err := p.checkApprovals(r); err != nil {
		return nil, err
	}
	spent, err := r.ExtractSpent()
	if err != nil {
		return nil, err
	}
	p.mux.Lock()
	p.spent.Join(spent)
	p.mux.Unlock()
	return r.Finish()
}

// ConfirmWithPolicyCap bypasses rule checking entirely. The admin capability
// alone cannot retire value, so requests with pending spent value are
// rejected - only the issuer can consume those.
func ConfirmWithPolicyCap(cap *AdminCap, r *token.ActionRequest) (*token.Receipt, error) {
	if cap == nil {
		return nil, ErrNotAuthorized
	}
	if r.Consumed() {
		return nil, token.ErrRequestConsumed
	}
	if r.HasSpent() {
		return nil, ErrCantConsumeBalance
	}
	return r.Finish()
}

// ConfirmWithTreasuryCap bypasses rule checking and, when the request
// carries pending spent value, permanently decreases total supply by that
// amount. This is the only path besides Flush by which spent value leaves
// circulation for good.
func ConfirmWithTreasuryCap(treasury *token.TreasuryCap, r *token.ActionRequest) (*token.Receipt, error) {
	if treasury == nil {
		return nil, ErrNotAuthorized
	}
	if r.Consumed() {
		return nil, token.ErrRequestConsumed
	}
	if r.HasSpent() {
		spent, err := r.ExtractSpent()
		if err != nil {
			return nil, err
		}
		if _, err := treasury.DecreaseSupply(spent); err != nil {
			return nil, err
		}
	}
	return r.Finish()
}

// Flush drains the entire spent ledger into the issuer's supply decrease and
// returns the amount retired. Intended to be called periodically, batching
// many spend settlements into one supply change.
func (p *Policy) Flush(treasury *token.TreasuryCap) (uint64, error) {
	if treasury == nil {
		return 0, ErrNotAuthorized
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	return treasury.DecreaseSupply(p.spent)
}

// checkApprovals verifies the action is registered and its required rule set
// is a subset of the request's approvals.
func (p *Policy) checkApprovals(r *token.ActionRequest) error {
	p.mux.RLock()
	defer p.mux.RUnlock()
	required, ok := p.rules[r.Action()]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, r.Action())
	}
	for key := range required {
		if !r.HasApproval(key) {
			return fmt.Errorf("%w: %s", ErrNotApproved, key)
		}
	}
	return nil
}
