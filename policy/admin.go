package policy

// Admin API. Every mutation verifies the capability against the policy
// identity; there is no account-based access control, possession of the
// AdminCap is the authorization.

// Allow registers the action with an empty rule set, permitting it
// unconditionally. Registering an already allowed action is a no-op.
func (p *Policy) Allow(cap *AdminCap, action string) error {
	if err := p.authorize(cap); err != nil {
		return err
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	if _, ok := p.rules[action]; !ok {
		p.rules[action] = make(map[string]struct{})
	}
	return nil
}

// Disallow removes the action entirely. In-flight requests for the action
// can no longer be confirmed through the rule-checking paths.
func (p *Policy) Disallow(cap *AdminCap, action string) error {
	if err := p.authorize(cap); err != nil {
		return err
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	delete(p.rules, action)
	return nil
}

// AddRuleForAction requires the rule identified by key for the action,
// registering the action first when needed.
func (p *Policy) AddRuleForAction(cap *AdminCap, action, key string) error {
	if err := p.authorize(cap); err != nil {
		return err
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	required, ok := p.rules[action]
	if !ok {
		required = make(map[string]struct{})
		p.rules[action] = required
	}
	required[key] = struct{}{}
	return nil
}

// RemoveRuleForAction drops the rule from the action's required set. The
// action itself stays registered.
func (p *Policy) RemoveRuleForAction(cap *AdminCap, action, key string) error {
	if err := p.authorize(cap); err != nil {
		return err
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	if required, ok := p.rules[action]; ok {
		delete(required, key)
	}
	return nil
}
