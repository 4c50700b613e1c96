package token

import "github.com/viant/clasp/internal/idgen"

// Action entry points. Each is a thin wrapper that consumes or produces a
// Token and emits the ActionRequest describing the attempted action. Custody
// of the object itself is the host environment's concern; only confirmation
// of the returned request is rule-gated.

// Transfer records the intent to move the token to recipient and returns the
// request to be confirmed against the policy.
func Transfer(t *Token, initiator, recipient string) *ActionRequest {
	return NewRequest(ActionTransfer, t.Value(), initiator, recipient)
}

// Spend destroys the token wrapper and moves its balance into the request as
// pending value. The request can only be consumed by the mutating or the
// treasury confirmation path.
func Spend(t *Token, initiator string) *ActionRequest {
	spent := t.take()
	request := NewRequest(ActionSpend, spent.Value(), initiator, "")
	request.spent = spent
	return request
}

// ToCoin unwraps the token into the open-coin representation. Total supply
// is unchanged; the value merely leaves the closed loop once the request is
// confirmed.
func ToCoin(t *Token, initiator string) (*Coin, *ActionRequest) {
	balance := t.take()
	coin := &Coin{id: idgen.New(), balance: balance}
	return coin, NewRequest(ActionToCoin, coin.Value(), initiator, "")
}

// FromCoin wraps an open coin back into the closed loop.
func FromCoin(c *Coin, initiator string) (*Token, *ActionRequest) {
	balance := c.balance.withdrawAll()
	t := &Token{id: idgen.New(), balance: balance}
	return t, NewRequest(ActionFromCoin, t.Value(), initiator, "")
}
