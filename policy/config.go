package policy

import "github.com/viant/clasp/rule"

// Per-rule configuration slots. Each rule type owns at most one slot on the
// policy. Writes require the admin capability; reads require the rule's own
// witness, so only the rule's defining package can inspect its config.

// AddRuleConfig stores config under the witness's rule identity. It fails
// with ErrConfigExists when the slot is occupied - remove first to replace.
func (p *Policy) AddRuleConfig(witness interface{}, cap *AdminCap, config interface{}) error {
	if err := p.authorize(cap); err != nil {
		return err
	}
	key := rule.Key(witness)
	p.mux.Lock()
	defer p.mux.Unlock()
	if _, ok := p.configs[key]; ok {
		return ErrConfigExists
	}
	p.configs[key] = config
	return nil
}

// RuleConfig returns the config stored for the witness's rule. The caller
// must treat the result as read-only; mutation goes through RuleConfigMut.
func (p *Policy) RuleConfig(witness interface{}) (interface{}, error) {
	key := rule.Key(witness)
	p.mux.RLock()
	defer p.mux.RUnlock()
	config, ok := p.configs[key]
	if !ok {
		return nil, ErrNoConfig
	}
	return config, nil
}

// RuleConfigMut returns the config for in-place mutation. On top of the
// rule witness it requires the admin capability, mirroring the asymmetry
// between read and write access.
func (p *Policy) RuleConfigMut(witness interface{}, cap *AdminCap) (interface{}, error) {
	if err := p.authorize(cap); err != nil {
		return nil, err
	}
	return p.RuleConfig(witness)
}

// RemoveRuleConfig detaches and returns the config stored under key. The
// admin alone can remove a slot; no witness is needed, so an issuer can
// always retire configuration of rules whose code is gone.
func (p *Policy) RemoveRuleConfig(cap *AdminCap, key string) (interface{}, error) {
	if err := p.authorize(cap); err != nil {
		return nil, err
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	config, ok := p.configs[key]
	if !ok {
		return nil, ErrNoConfig
	}
	delete(p.configs, key)
	return config, nil
}

// HasRuleConfig reports whether a config slot exists for the rule key.
func (p *Policy) HasRuleConfig(key string) bool {
	p.mux.RLock()
	defer p.mux.RUnlock()
	_, ok := p.configs[key]
	return ok
}

// HasRuleConfigWithType reports whether the slot exists and holds a value of
// type C (or *C).
func HasRuleConfigWithType[C any](p *Policy, key string) bool {
	p.mux.RLock()
	defer p.mux.RUnlock()
	config, ok := p.configs[key]
	if !ok {
		return false
	}
	if _, ok := config.(C); ok {
		return true
	}
	_, ok = config.(*C)
	return ok
}
