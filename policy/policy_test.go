package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/clasp/rule"
	"github.com/viant/clasp/token"
)

// testWitness stands in for a rule identity in tests.
type testWitness struct{}

// otherWitness is a second, unrequired rule identity.
type otherWitness struct{}

func newPolicy(t *testing.T) (*Policy, *AdminCap, *token.TreasuryCap) {
	treasury := token.NewTreasury()
	p, cap, err := New(treasury)
	assert.NoError(t, err)
	return p, cap, treasury
}

func TestNewClaimsTreasury(t *testing.T) {
	treasury := token.NewTreasury()
	p, cap, err := New(treasury)
	assert.NoError(t, err)
	assert.Equal(t, p.ID(), cap.Policy())

	// At most one policy/cap pair per asset type.
	_, _, err = New(treasury)
	assert.ErrorIs(t, err, token.ErrPolicyClaimed)
}

func TestAdminAuthorization(t *testing.T) {
	p, cap, _ := newPolicy(t)
	_, foreignCap, _ := newPolicy(t)

	assert.ErrorIs(t, p.Allow(nil, token.ActionTransfer), ErrNotAuthorized)
	assert.ErrorIs(t, p.Allow(foreignCap, token.ActionTransfer), ErrNotAuthorized)
	assert.NoError(t, p.Allow(cap, token.ActionTransfer))
	assert.True(t, p.IsAllowed(token.ActionTransfer))

	key := rule.Key(testWitness{})
	assert.ErrorIs(t, p.AddRuleForAction(foreignCap, token.ActionTransfer, key), ErrNotAuthorized)
	assert.NoError(t, p.AddRuleForAction(cap, token.ActionTransfer, key))
	required, ok := p.Rules(token.ActionTransfer)
	assert.True(t, ok)
	assert.Equal(t, []string{key}, required)

	assert.NoError(t, p.RemoveRuleForAction(cap, token.ActionTransfer, key))
	required, ok = p.Rules(token.ActionTransfer)
	assert.True(t, ok)
	assert.Empty(t, required)

	assert.NoError(t, p.Disallow(cap, token.ActionTransfer))
	assert.False(t, p.IsAllowed(token.ActionTransfer))
	_, ok = p.Rules(token.ActionTransfer)
	assert.False(t, ok)
}

func TestConfirmRequest(t *testing.T) {
	p, cap, _ := newPolicy(t)
	assert.NoError(t, p.Allow(cap, token.ActionTransfer))
	assert.NoError(t, p.AddRuleForAction(cap, token.ActionTransfer, rule.Key(testWitness{})))

	// Missing approval rejects the request without consuming it.
	request := token.NewRequest(token.ActionTransfer, 100, "0xalice", "0xbob")
	_, err := p.ConfirmRequest(request)
	assert.ErrorIs(t, err, ErrNotApproved)
	assert.False(t, request.Consumed())

	// With the approval stamped the request confirms exactly once.
	assert.NoError(t, request.AddApproval(testWitness{}))
	receipt, err := p.ConfirmRequest(request)
	assert.NoError(t, err)
	assert.Equal(t, token.ActionTransfer, receipt.Action)
	assert.EqualValues(t, 100, receipt.Amount)

	_, err = p.ConfirmRequest(request)
	assert.ErrorIs(t, err, token.ErrRequestConsumed)
}

func TestConfirmUnknownAction(t *testing.T) {
	p, _, _ := newPolicy(t)
	request := token.NewRequest(token.ActionTransfer, 100, "0xalice", "0xbob")
	_, err := p.ConfirmRequest(request)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestSupersetApprovalsTolerated(t *testing.T) {
	p, cap, _ := newPolicy(t)
	assert.NoError(t, p.Allow(cap, token.ActionTransfer))
	assert.NoError(t, p.AddRuleForAction(cap, token.ActionTransfer, rule.Key(testWitness{})))

	request := token.NewRequest(token.ActionTransfer, 100, "0xalice", "0xbob")
	assert.NoError(t, request.AddApproval(testWitness{}))
	assert.NoError(t, request.AddApproval(otherWitness{}))

	_, err := p.ConfirmRequest(request)
	assert.NoError(t, err)
}

func TestDisallowMidFlight(t *testing.T) {
	p, cap, _ := newPolicy(t)
	assert.NoError(t, p.Allow(cap, token.ActionTransfer))

	request := token.NewRequest(token.ActionTransfer, 100, "0xalice", "0xbob")
	assert.NoError(t, p.Disallow(cap, token.ActionTransfer))

	// The policy change applies to requests created before it.
	_, err := p.ConfirmRequest(request)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestConfirmRequestMut(t *testing.T) {
	p, cap, treasury := newPolicy(t)
	assert.NoError(t, p.Allow(cap, token.ActionSpend))

	minted, err := treasury.Mint(500)
	assert.NoError(t, err)
	request := token.Spend(minted, "0xalice")

	// The spent balance can only go through the mutable path.
	_, err = p.ConfirmRequest(request)
	assert.ErrorIs(t, err, ErrCantConsumeBalance)

	receipt, err := p.ConfirmRequestMut(request)
	assert.NoError(t, err)
	assert.EqualValues(t, 500, receipt.Amount)
	assert.EqualValues(t, 500, p.SpentValue())

	// The supply is unchanged until the issuer flushes.
	assert.EqualValues(t, 500, treasury.TotalSupply())
	flushed, err := p.Flush(treasury)
	assert.NoError(t, err)
	assert.EqualValues(t, 500, flushed)
	assert.EqualValues(t, 0, p.SpentValue())
	assert.EqualValues(t, 0, treasury.TotalSupply())
}

func TestConfirmRequestMutRequiresSpent(t *testing.T) {
	p, cap, _ := newPolicy(t)
	assert.NoError(t, p.Allow(cap, token.ActionTransfer))
	request := token.NewRequest(token.ActionTransfer, 100, "0xalice", "0xbob")
	_, err := p.ConfirmRequestMut(request)
	assert.ErrorIs(t, err, ErrUseImmutableConfirm)
}

func TestConfirmWithPolicyCap(t *testing.T) {
	p, cap, treasury := newPolicy(t)
	// No action registration or approvals needed.
	request := token.NewRequest("custom", 10, "0xalice", "")
	receipt, err := ConfirmWithPolicyCap(cap, request)
	assert.NoError(t, err)
	assert.Equal(t, "custom", receipt.Action)

	// The admin capability cannot retire spent value.
	minted, err := treasury.Mint(50)
	assert.NoError(t, err)
	spend := token.Spend(minted, "0xalice")
	_, err = ConfirmWithPolicyCap(cap, spend)
	assert.ErrorIs(t, err, ErrCantConsumeBalance)
	_ = p
}

func TestConfirmWithTreasuryCap(t *testing.T) {
	_, _, treasury := newPolicy(t)
	minted, err := treasury.Mint(200)
	assert.NoError(t, err)

	spend := token.Spend(minted, "0xalice")
	receipt, err := ConfirmWithTreasuryCap(treasury, spend)
	assert.NoError(t, err)
	assert.EqualValues(t, 200, receipt.Amount)

	// The issuer path settles immediately against the supply.
	assert.EqualValues(t, 0, treasury.TotalSupply())
}

func TestRuleConfigSlots(t *testing.T) {
	p, cap, _ := newPolicy(t)
	_, foreignCap, _ := newPolicy(t)
	key := rule.Key(testWitness{})

	type listConfig struct{ Addresses []string }
	config := &listConfig{Addresses: []string{"0xbad"}}

	assert.ErrorIs(t, p.AddRuleConfig(testWitness{}, foreignCap, config), ErrNotAuthorized)
	assert.NoError(t, p.AddRuleConfig(testWitness{}, cap, config))
	assert.ErrorIs(t, p.AddRuleConfig(testWitness{}, cap, config), ErrConfigExists)
	assert.True(t, p.HasRuleConfig(key))
	assert.True(t, HasRuleConfigWithType[listConfig](p, key))
	assert.False(t, HasRuleConfigWithType[int](p, key))

	stored, err := p.RuleConfig(testWitness{})
	assert.NoError(t, err)
	assert.Same(t, config, stored)

	_, err = p.RuleConfigMut(testWitness{}, foreignCap)
	assert.ErrorIs(t, err, ErrNotAuthorized)
	mut, err := p.RuleConfigMut(testWitness{}, cap)
	assert.NoError(t, err)
	assert.Same(t, config, mut)

	// Admin can retire the slot by key without a witness.
	removed, err := p.RemoveRuleConfig(cap, key)
	assert.NoError(t, err)
	assert.Same(t, config, removed)
	assert.False(t, p.HasRuleConfig(key))
	_, err = p.RuleConfig(testWitness{})
	assert.ErrorIs(t, err, ErrNoConfig)
}
