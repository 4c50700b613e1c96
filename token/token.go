package token

import (
	"github.com/viant/clasp/internal/idgen"
)

// Token is the capability-checked wrapper around a Balance - the unit of the
// closed-loop asset that account holders own and move around. Every way of
// creating or destroying a Token goes through the TreasuryCap or through one
// of the action entry points in actions.go.
type Token struct {
	id      string
	balance *Balance
}

// ID returns the token object identity.
func (t *Token) ID() string {
	return t.id
}

// Value returns the amount the token holds.
func (t *Token) Value() uint64 {
	return t.balance.Value()
}

// Split moves amount into a newly allocated token. It fails with
// ErrInsufficientBalance when amount exceeds the token's value.
func (t *Token) Split(amount uint64) (*Token, error) {
	part, err := t.balance.Split(amount)
	if err != nil {
		return nil, err
	}
	return &Token{id: idgen.New(), balance: part}, nil
}

// Join absorbs the other token, leaving it empty.
func (t *Token) Join(other *Token) {
	if other == nil {
		return
	}
	t.balance.Join(other.balance)
}

// Zero returns a token holding no value. Useful as an accumulator when
// joining many tokens.
func Zero() *Token {
	return &Token{id: idgen.New(), balance: ZeroBalance()}
}

// DestroyZero asserts the token holds nothing. Tokens with value must be
// burned, spent or joined instead.
func (t *Token) DestroyZero() error {
	return t.balance.DestroyZero()
}

// take empties the token and returns its previous content.
func (t *Token) take() *Balance {
	return t.balance.withdrawAll()
}

// Coin is the open, unrestricted form of the asset. Converting between Token
// and Coin does not change total supply; it only unwraps or re-wraps the
// value, and each conversion is itself a policed action.
type Coin struct {
	id      string
	balance *Balance
}

// ID returns the coin object identity.
func (c *Coin) ID() string {
	return c.id
}

// Value returns the amount the coin holds.
func (c *Coin) Value() uint64 {
	return c.balance.Value()
}

// NewCoin wraps a balance into the open representation. It is exposed so that
// hosts integrating an existing open-coin ledger can hand value into the
// closed loop via FromCoin.
func NewCoin(balance *Balance) *Coin {
	if balance == nil {
		balance = ZeroBalance()
	}
	return &Coin{id: idgen.New(), balance: balance}
}

// TreasuryCap is the root issuer capability for one asset type. It is the
// only value that can mint and burn, the only one allowed to retire spent
// value, and it unconditionally approves any action request.
type TreasuryCap struct {
	id            string
	supply        *Supply
	policyClaimed bool
}

// NewTreasury creates the issuer capability together with an empty supply.
// Exactly one treasury exists per asset type; the host is responsible for
// not calling this twice for the same asset.
func NewTreasury() *TreasuryCap {
	return &TreasuryCap{id: idgen.New(), supply: NewSupply()}
}

// ID returns the capability object identity.
func (c *TreasuryCap) ID() string {
	return c.id
}

// TotalSupply returns the circulating total.
func (c *TreasuryCap) TotalSupply() uint64 {
	return c.supply.Value()
}

// Mint creates a token with the given amount, increasing total supply.
func (c *TreasuryCap) Mint(amount uint64) (*Token, error) {
	balance, err := c.supply.Increase(amount)
	if err != nil {
		return nil, err
	}
	return &Token{id: idgen.New(), balance: balance}, nil
}

// Burn destroys the token, decreasing total supply, and returns the amount
// retired.
func (c *TreasuryCap) Burn(t *Token) (uint64, error) {
	return c.supply.Decrease(t.take())
}

// DecreaseSupply retires a raw balance. Used by the policy layer when
// flushing the spent ledger and when the treasury path confirms a spend.
func (c *TreasuryCap) DecreaseSupply(b *Balance) (uint64, error) {
	return c.supply.Decrease(b)
}

// ClaimPolicy is a single-use latch consumed by policy creation so that at
// most one policy/admin-cap pair exists per treasury.
func (c *TreasuryCap) ClaimPolicy() error {
	if c.policyClaimed {
		return ErrPolicyClaimed
	}
	c.policyClaimed = true
	return nil
}
