package token

import "math"

// Balance is the primitive value container. It holds a non-negative amount
// and supports split/join arithmetic that can never create or destroy value;
// only Supply can do that.
type Balance struct {
	value uint64
}

// ZeroBalance returns an empty container.
func ZeroBalance() *Balance {
	return &Balance{}
}

// Value returns the amount held by the container.
func (b *Balance) Value() uint64 {
	if b == nil {
		return 0
	}
	return b.value
}

// Split moves amount out of the container into a new one. It fails with
// ErrInsufficientBalance when amount exceeds the holdings.
func (b *Balance) Split(amount uint64) (*Balance, error) {
	if amount > b.value {
		return nil, ErrInsufficientBalance
	}
	b.value -= amount
	return &Balance{value: amount}, nil
}

// Join absorbs the other container, leaving it empty, and returns the new
// total. Joining two containers each below the supply cap cannot overflow
// because Supply bounds the circulating total.
func (b *Balance) Join(other *Balance) uint64 {
	if other == nil {
		return b.value
	}
	b.value += other.value
	other.value = 0
	return b.value
}

// withdrawAll empties the container and returns its previous content as a
// new container.
func (b *Balance) withdrawAll() *Balance {
	ret := &Balance{value: b.value}
	b.value = 0
	return ret
}

// DestroyZero asserts the container holds nothing. Non-empty containers must
// be joined or retired through Supply instead.
func (b *Balance) DestroyZero() error {
	if b.value != 0 {
		return ErrNonZeroBalance
	}
	return nil
}

// Supply tracks the total amount of value in circulation for one asset type.
// Increase and Decrease are the only two operations in the module that change
// the circulating total.
type Supply struct {
	value uint64
}

// NewSupply returns an empty supply.
func NewSupply() *Supply {
	return &Supply{}
}

// Value returns the circulating total.
func (s *Supply) Value() uint64 {
	return s.value
}

// Increase mints amount into a fresh container and grows the total.
func (s *Supply) Increase(amount uint64) (*Balance, error) {
	if amount > math.MaxUint64-s.value {
		return nil, ErrSupplyOverflow
	}
	s.value += amount
	return &Balance{value: amount}, nil
}

// Decrease retires the container's content and shrinks the total, returning
// the amount destroyed.
func (s *Supply) Decrease(b *Balance) (uint64, error) {
	amount := b.Value()
	if amount > s.value {
		return 0, ErrSupplyUnderflow
	}
	s.value -= amount
	b.value = 0
	return amount, nil
}
