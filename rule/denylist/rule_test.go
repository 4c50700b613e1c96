package denylist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/clasp/policy"
	"github.com/viant/clasp/token"
)

func newPolicy(t *testing.T) (*policy.Policy, *policy.AdminCap) {
	p, cap, err := policy.New(token.NewTreasury())
	assert.NoError(t, err)
	return p, cap
}

func TestVerifyWithoutConfig(t *testing.T) {
	p, _ := newPolicy(t)
	r := New()
	request := token.NewRequest(token.ActionTransfer, 100, "0xalice", "0xbob")
	// An absent deny list denies nobody.
	assert.NoError(t, r.Verify(p, request))
	assert.True(t, request.HasApproval(r.Key()))
}

func TestVerifyDenies(t *testing.T) {
	p, cap := newPolicy(t)
	r := New()
	assert.NoError(t, r.Install(p, cap, &Config{Addresses: []string{"0xbad"}}))

	request := token.NewRequest(token.ActionTransfer, 100, "0xbad", "0xbob")
	assert.ErrorIs(t, r.Verify(p, request), ErrDenied)
	assert.False(t, request.HasApproval(r.Key()))

	// The recipient is checked too.
	request = token.NewRequest(token.ActionTransfer, 100, "0xalice", "0xbad")
	assert.ErrorIs(t, r.Verify(p, request), ErrDenied)

	request = token.NewRequest(token.ActionTransfer, 100, "0xalice", "0xbob")
	assert.NoError(t, r.Verify(p, request))
	assert.True(t, request.HasApproval(r.Key()))
}

func TestInstallReplaces(t *testing.T) {
	p, cap := newPolicy(t)
	r := New()
	assert.NoError(t, r.Install(p, cap, &Config{Addresses: []string{"0xbad"}}))
	assert.NoError(t, r.Install(p, cap, &Config{Addresses: []string{"0xworse"}}))

	request := token.NewRequest(token.ActionTransfer, 100, "0xbad", "0xbob")
	assert.NoError(t, r.Verify(p, request))
	request = token.NewRequest(token.ActionTransfer, 100, "0xworse", "0xbob")
	assert.ErrorIs(t, r.Verify(p, request), ErrDenied)
}

func TestBindConfigRejectsArgument(t *testing.T) {
	r := New()
	_, err := r.BindConfig(nil, token.ActionTransfer, "0xbad")
	assert.Error(t, err)
}

func TestDecodeConfig(t *testing.T) {
	r := New()
	decoded, err := r.DecodeConfig(map[string]interface{}{
		"addresses": []interface{}{"0xbad", "0xworse"},
	})
	assert.NoError(t, err)
	config, ok := decoded.(*Config)
	assert.True(t, ok)
	assert.Equal(t, []string{"0xbad", "0xworse"}, config.Addresses)
}
