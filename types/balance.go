// Package types provides common types used across the coin ledger.
package types

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"
)

// Balance is an unsigned quantity of the ledger's single asset, expressed in
// its smallest indivisible unit. All arithmetic is integer-only.
//
// Plain + and - on a Balance wrap silently. Ledger code must use the checked
// variants to detect overflow/underflow and the saturating variants to apply
// a change that has already been checked.
type Balance uint64

// MaxBalance is the largest representable Balance.
const MaxBalance = Balance(math.MaxUint64)

// Zero is the zero Balance.
const Zero = Balance(0)

// CheckedAdd returns b+other and true, or zero and false if the sum overflows.
func (b Balance) CheckedAdd(other Balance) (Balance, bool) {
	sum, carry := bits.Add64(uint64(b), uint64(other), 0)
	if carry != 0 {
		return Zero, false
	}
	return Balance(sum), true
}

// CheckedSub returns b-other and true, or zero and false if other > b.
func (b Balance) CheckedSub(other Balance) (Balance, bool) {
	diff, borrow := bits.Sub64(uint64(b), uint64(other), 0)
	if borrow != 0 {
		return Zero, false
	}
	return Balance(diff), true
}

// SaturatingAdd returns b+other clamped to MaxBalance.
func (b Balance) SaturatingAdd(other Balance) Balance {
	if sum, ok := b.CheckedAdd(other); ok {
		return sum
	}
	return MaxBalance
}

// SaturatingSub returns b-other clamped to zero.
func (b Balance) SaturatingSub(other Balance) Balance {
	if diff, ok := b.CheckedSub(other); ok {
		return diff
	}
	return Zero
}

// IsZero reports whether the balance is zero.
func (b Balance) IsZero() bool { return b == 0 }

// Max returns the larger of two balances.
func (b Balance) Max(other Balance) Balance {
	if b > other {
		return b
	}
	return other
}

// String returns the decimal representation.
func (b Balance) String() string {
	return strconv.FormatUint(uint64(b), 10)
}

// MarshalText implements encoding.TextMarshaler. Balances are encoded as
// decimal strings so JSON consumers with float64 numbers keep full precision.
func (b Balance) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Balance) UnmarshalText(data []byte) error {
	parsed, err := ParseBalance(string(data))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBalance parses a base-10 unsigned integer into a Balance.
func ParseBalance(s string) (Balance, error) {
	if s == "" {
		return Zero, fmt.Errorf("balance: parse %q: empty string", s)
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return Zero, fmt.Errorf("balance: parse %q: %w", s, err)
	}
	return Balance(v), nil
}

// Sum adds balances with overflow detection. It returns false if the total
// does not fit in a Balance.
func Sum(values ...Balance) (Balance, bool) {
	total := Zero
	for _, v := range values {
		next, ok := total.CheckedAdd(v)
		if !ok {
			return Zero, false
		}
		total = next
	}
	return total, true
}
