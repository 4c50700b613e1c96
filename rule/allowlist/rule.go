// Package allowlist implements a rule that only approves actions whose
// parties are all on the configured allow list. Unlike denylist, the rule
// requires a config: an allow list that was never set approves nobody.
package allowlist

import (
	"errors"
	"fmt"

	"github.com/viant/clasp/internal/yml"
	"github.com/viant/clasp/policy"
	"github.com/viant/clasp/rule"
	"github.com/viant/clasp/token"
)

// Name is the short name policy documents use to reference this rule.
const Name = "allowlist"

// ErrNotAllowed is returned when a party of the action is not listed.
var ErrNotAllowed = errors.New("allowlist: address not allowed")

// Config holds the permitted addresses.
type Config struct {
	Addresses []string `yaml:"addresses" json:"addresses"`
}

func (c *Config) contains(address string) bool {
	for _, candidate := range c.Addresses {
		if candidate == address {
			return true
		}
	}
	return false
}

// witness is the rule identity; it never leaves this package.
type witness struct{}

// Rule verifies requests against the allow list stored on the policy.
type Rule struct{}

// New creates the rule.
func New() *Rule { return &Rule{} }

// Name returns the document-facing rule name.
func (r *Rule) Name() string { return Name }

// Key returns the canonical rule identity.
func (r *Rule) Key() string { return rule.Key(witness{}) }

// Verify stamps the approval when every party of the action is listed.
func (r *Rule) Verify(p *policy.Policy, request *token.ActionRequest) error {
	config, err := p.RuleConfig(witness{})
	if err != nil {
		return err
	}
	allowed, ok := config.(*Config)
	if !ok {
		return fmt.Errorf("allowlist: unexpected config type %T", config)
	}
	if !allowed.contains(request.Initiator()) {
		return fmt.Errorf("%w: %s", ErrNotAllowed, request.Initiator())
	}
	if recipient, ok := request.Recipient(); ok && !allowed.contains(recipient) {
		return fmt.Errorf("%w: %s", ErrNotAllowed, recipient)
	}
	return request.AddApproval(witness{})
}

// BindConfig rejects per-action arguments; the allow list is global to the
// rule, supplied through the document's configs section.
func (r *Rule) BindConfig(config interface{}, action, arg string) (interface{}, error) {
	if arg != "" {
		return nil, fmt.Errorf("allowlist: rule takes no argument, got %q", arg)
	}
	return config, nil
}

// DecodeConfig converts a raw document config value into *Config.
func (r *Rule) DecodeConfig(raw interface{}) (interface{}, error) {
	config := &Config{}
	if err := yml.Decode(raw, config); err != nil {
		return nil, err
	}
	return config, nil
}

// Install attaches the config to the policy under this rule's identity,
// replacing any previous config.
func (r *Rule) Install(p *policy.Policy, cap *policy.AdminCap, config interface{}) error {
	if config == nil {
		return nil
	}
	if p.HasRuleConfig(r.Key()) {
		if _, err := p.RemoveRuleConfig(cap, r.Key()); err != nil {
			return err
		}
	}
	return p.AddRuleConfig(witness{}, cap, config)
}
