package policy

import "errors"

var (
	// ErrNotAuthorized is returned when the presented admin capability does
	// not reference this policy.
	ErrNotAuthorized = errors.New("policy: capability does not match policy")

	// ErrUnknownAction is returned when confirming a request for an action
	// the policy does not register.
	ErrUnknownAction = errors.New("policy: unknown action")

	// ErrNotApproved is returned when a required rule approval is missing
	// from the request at confirmation time.
	ErrNotApproved = errors.New("policy: missing rule approval")

	// ErrCantConsumeBalance is returned when a confirmation path that cannot
	// retire value receives a request carrying pending spent value.
	ErrCantConsumeBalance = errors.New("policy: confirmation cannot consume pending balance")

	// ErrUseImmutableConfirm is returned by the mutating confirmation when
	// the request carries no pending value.
	ErrUseImmutableConfirm = errors.New("policy: request has no pending balance, use ConfirmRequest")

	// ErrNoConfig is returned when a rule config slot was never set.
	ErrNoConfig = errors.New("policy: rule config not found")

	// ErrConfigExists is returned when adding a config to a slot that is
	// already occupied; remove the previous config first.
	ErrConfigExists = errors.New("policy: rule config already present")
)
