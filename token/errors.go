package token

import "errors"

// Sentinel errors reported by the container and request layer. Callers detect
// conditions via errors.Is instead of string comparison.

var (
	// ErrInsufficientBalance is returned when a split asks for more value
	// than the container holds.
	ErrInsufficientBalance = errors.New("token: insufficient balance")

	// ErrNonZeroBalance is returned by DestroyZero on a container that still
	// holds value.
	ErrNonZeroBalance = errors.New("token: balance not zero")

	// ErrSupplyOverflow indicates the total supply would exceed the uint64
	// range.
	ErrSupplyOverflow = errors.New("token: supply overflow")

	// ErrSupplyUnderflow indicates an attempt to retire more value than the
	// recorded total supply.
	ErrSupplyUnderflow = errors.New("token: supply underflow")

	// ErrRequestConsumed is returned when an already confirmed ActionRequest
	// is used again.
	ErrRequestConsumed = errors.New("token: request already consumed")

	// ErrNoPendingBalance is returned when a confirmation path expects the
	// request to carry spent value and it does not.
	ErrNoPendingBalance = errors.New("token: request carries no pending balance")

	// ErrPendingBalance is returned when a request still carries spent value
	// that the chosen confirmation path is not allowed to consume.
	ErrPendingBalance = errors.New("token: request carries pending balance")

	// ErrUnresolvedRequest is returned by Guard.AssertResolved when a unit of
	// work ends with an ActionRequest that no confirmation path consumed.
	ErrUnresolvedRequest = errors.New("token: unresolved action request")

	// ErrPolicyClaimed is returned when a second policy is created for the
	// same treasury.
	ErrPolicyClaimed = errors.New("token: policy already created for treasury")
)
