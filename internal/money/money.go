package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal currency amount. All amounts exposed by the API
// are quantized to two fractional digits; intermediate products of a rate
// application are rounded immediately rather than carried at full precision,
// because rounding-then-summing and summing-then-rounding diverge once many
// lines are combined.
type Money struct {
	d decimal.Decimal
}

// Zero is the 0.00 amount.
var Zero = Money{}

// FromDecimal wraps a raw decimal without quantizing it.
func FromDecimal(d decimal.Decimal) Money {
	return Money{d: d}
}

// FromString parses a decimal string such as "19.99".
func FromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, fmt.Errorf("parse money: %w", err)
	}
	return Money{d: d}, nil
}

// MustParse parses a decimal string and panics on failure. Intended for
// constants and tests.
func MustParse(value string) Money {
	m, err := FromString(value)
	if err != nil {
		panic(err)
	}
	return m
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{d: m.d.Add(other.d)}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{d: m.d.Sub(other.d)}
}

// MulInt returns m multiplied by an integer count, e.g. unit price times
// quantity. A 2-dp amount times an integer stays within 2 dp, so no rounding
// is applied here.
func (m Money) MulInt(n int64) Money {
	return Money{d: m.d.Mul(decimal.NewFromInt(n))}
}

// MulRate applies a fractional rate and quantizes the product immediately.
// This is the only operation that can produce sub-cent precision, and the
// result is never carried forward unrounded.
func (m Money) MulRate(rate decimal.Decimal) Money {
	return Money{d: m.d.Mul(rate)}.Quantize()
}

// Quantize rounds to two fractional digits with ties away from zero
// (round-half-up in the cash-register sense: 16.875 becomes 16.88).
func (m Money) Quantize() Money {
	return Money{d: m.d.Round(2)}
}

// Cmp compares two amounts: -1 if m < other, 0 if equal, +1 if m > other.
func (m Money) Cmp(other Money) int {
	return m.d.Cmp(other.d)
}

// GreaterThan reports whether m > other.
func (m Money) GreaterThan(other Money) bool {
	return m.d.GreaterThan(other.d)
}

// LessThanOrEqual reports whether m <= other.
func (m Money) LessThanOrEqual(other Money) bool {
	return m.d.LessThanOrEqual(other.d)
}

// Equal reports whether the two amounts are numerically equal.
func (m Money) Equal(other Money) bool {
	return m.d.Equal(other.d)
}

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool {
	return m.d.IsPositive()
}

// IsZero reports whether m == 0.
func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// Decimal exposes the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.d
}

// String renders the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.d.StringFixed(2)
}

// MarshalJSON encodes the amount as a JSON number with exactly two fractional
// digits so identical computations serialize byte-identically.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.StringFixed(2)), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("parse money: %w", err)
	}
	m.d = d
	return nil
}
