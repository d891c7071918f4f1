// internal/domain/money.go
package domain

import (
	"fmt"

	"github.com/shopspring/decimal" // For precise monetary calculations

	"centledger/internal/util"
)

// Money is an immutable monetary value held as a whole number of minor
// currency units (cents). All arithmetic returns a new value; a Money can
// never hold a negative amount.
type Money struct {
	cents int64
}

// FromCents creates a Money from an amount in cents.
func FromCents(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, fmt.Errorf("%w: amount cannot be negative", util.ErrInvalidAmount)
	}
	return Money{cents: cents}, nil
}

// FromMajorUnits converts a major-unit decimal amount (e.g. "10.50") to
// Money, rounding half away from zero to the nearest cent.
func FromMajorUnits(amount decimal.Decimal) (Money, error) {
	cents := amount.Shift(2).Round(0)
	if !cents.BigInt().IsInt64() {
		return Money{}, fmt.Errorf("%w: amount out of range", util.ErrInvalidAmount)
	}
	return FromCents(cents.IntPart())
}

// Cents returns the amount in cents.
func (m Money) Cents() int64 {
	return m.cents
}

// MajorUnits returns the amount in major currency units.
func (m Money) MajorUnits() decimal.Decimal {
	return decimal.NewFromInt(m.cents).Shift(-2)
}

// Add returns the sum of two amounts. The sum of two non-negative amounts
// is non-negative, so Add cannot fail.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Subtract returns m minus other, or ErrInsufficientFunds if the result
// would be negative.
func (m Money) Subtract(other Money) (Money, error) {
	if m.cents < other.cents {
		return Money{}, util.ErrInsufficientFunds
	}
	return Money{cents: m.cents - other.cents}, nil
}

// GreaterThan reports whether m is strictly greater than other.
func (m Money) GreaterThan(other Money) bool {
	return m.cents > other.cents
}

// LessThan reports whether m is strictly less than other.
func (m Money) LessThan(other Money) bool {
	return m.cents < other.cents
}

// Equals reports whether both amounts are the same.
func (m Money) Equals(other Money) bool {
	return m.cents == other.cents
}

func (m Money) String() string {
	return m.MajorUnits().StringFixed(2)
}
