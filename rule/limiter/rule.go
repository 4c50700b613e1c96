// Package limiter implements a rule that caps the amount of a single
// action. Limits are per action name; an action without a limit is
// unbounded. Policy documents set the limit through the rule argument, for
// example "limiter(3000)" under the transfer action.
package limiter

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/viant/clasp/internal/yml"
	"github.com/viant/clasp/policy"
	"github.com/viant/clasp/rule"
	"github.com/viant/clasp/token"
)

// Name is the short name policy documents use to reference this rule.
const Name = "limiter"

// ErrLimitExceeded is returned when the request amount is above the
// configured limit for its action.
var ErrLimitExceeded = errors.New("limiter: amount exceeds limit")

// Config holds per-action amount limits.
type Config struct {
	Limits map[string]uint64 `yaml:"limits" json:"limits"`
}

// witness is the rule identity; it never leaves this package.
type witness struct{}

// Rule verifies request amounts against the limits stored on the policy.
type Rule struct{}

// New creates the rule.
func New() *Rule { return &Rule{} }

// Name returns the document-facing rule name.
func (r *Rule) Name() string { return Name }

// Key returns the canonical rule identity.
func (r *Rule) Key() string { return rule.Key(witness{}) }

// Verify stamps the approval when the request amount is within the limit
// configured for its action. A missing config or missing action entry means
// unlimited.
func (r *Rule) Verify(p *policy.Policy, request *token.ActionRequest) error {
	config, err := p.RuleConfig(witness{})
	if err == nil {
		limits, ok := config.(*Config)
		if !ok {
			return fmt.Errorf("limiter: unexpected config type %T", config)
		}
		if limit, ok := limits.Limits[request.Action()]; ok && request.Amount() > limit {
			return fmt.Errorf("%w: %d > %d for %q", ErrLimitExceeded, request.Amount(), limit, request.Action())
		}
	} else if !errors.Is(err, policy.ErrNoConfig) {
		return err
	}
	return request.AddApproval(witness{})
}

// BindConfig accumulates the per-action limit from the rule argument, e.g.
// "limiter(500)" under the spend action sets Limits["spend"] = 500.
func (r *Rule) BindConfig(config interface{}, action, arg string) (interface{}, error) {
	if arg == "" {
		return config, nil
	}
	limit, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("limiter: invalid limit %q for %q: %w", arg, action, err)
	}
	limits, _ := config.(*Config)
	if limits == nil {
		limits = &Config{Limits: make(map[string]uint64)}
	}
	limits.Limits[action] = limit
	return limits, nil
}

// DecodeConfig converts a raw document config value into *Config, for
// documents that set limits through the configs section instead of rule
// arguments.
func (r *Rule) DecodeConfig(raw interface{}) (interface{}, error) {
	config := &Config{}
	if err := yml.Decode(raw, config); err != nil {
		return nil, err
	}
	return config, nil
}

// Install attaches the accumulated limits to the policy, replacing any
// previous config.
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
