// Package denylist implements a rule that blocks actions involving listed
// addresses. Both the initiator and, when present, the recipient are
// checked. An absent config means nothing is denied.
package denylist

import (
	"errors"
	"fmt"

	"github.com/viant/clasp/internal/yml"
	"github.com/viant/clasp/policy"
	"github.com/viant/clasp/rule"
	"github.com/viant/clasp/token"
)

// Name is the short name policy documents use to reference this rule.
const Name = "denylist"

// ErrDenied is returned when a party of the action is on the deny list.
var ErrDenied = errors.New("denylist: address denied")

// Config holds the denied addresses.
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

// Rule verifies requests against the deny list stored on the policy.
type Rule struct{}

// New creates the rule.
func New() *Rule { return &Rule{} }

// Name returns the document-facing rule name.
func (r *Rule) Name() string { return Name }

// Key returns the canonical rule identity.
func (r *Rule) Key() string { return rule.Key(witness{}) }

// Verify checks the request parties against the configured deny list and
// stamps the approval when none is listed.
func (r *Rule) Verify(p *policy.Policy, request *token.ActionRequest) error {
	config, err := p.RuleConfig(witness{})
	if err == nil {
		denied, ok := config.(*Config)
		if !ok {
			return fmt.Errorf("denylist: unexpected config type %T", config)
		}
		if denied.contains(request.Initiator()) {
			return fmt.Errorf("%w: %s", ErrDenied, request.Initiator())
		}
		if recipient, ok := request.Recipient(); ok && denied.contains(recipient) {
			return fmt.Errorf("%w: %s", ErrDenied, recipient)
		}
	} else if !errors.Is(err, policy.ErrNoConfig) {
		return err
	}
	return request.AddApproval(witness{})
}

// BindConfig rejects per-action arguments; the deny list is global to the
// rule, supplied through the document's configs section.
func (r *Rule) BindConfig(config interface{}, action, arg string) (interface{}, error) {
	if arg != "" {
		return nil, fmt.Errorf("denylist: rule takes no argument, got %q", arg)
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
