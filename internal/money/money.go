// Package money implements an exact fixed-point monetary value.
//
// A Money is Amount minor units at Scale decimal places of Currency, so
// {Amount: 3000, Scale: 2, Currency: "USD"} is 30.00 USD. Values are immutable
// and arithmetic never goes through floating point. Operands of different
// scales are normalized to the larger scale before they are combined.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxScale is the largest supported scale. 10^18 still fits in an int64.
const MaxScale = 18

var (
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrPrecisionLoss    = errors.New("amount not representable at scale")
	ErrOverflow         = errors.New("amount overflows int64")
	ErrInvalidScale     = errors.New("invalid scale")
)

// Money is an amount of minor units of a currency at a given scale.
type Money struct {
	Amount   int64  `json:"amount"`
	Scale    int32  `json:"scale"`
	Currency string `json:"currency_code"`
}

// New returns amount minor units of currency at scale.
func New(amount int64, scale int32, currency string) Money {
	return Money{Amount: amount, Scale: scale, Currency: currency}
}

// Zero returns a zero amount of currency at scale 0. Adding it to any value
// of the same currency yields that value unchanged.
func Zero(currency string) Money {
	return Money{Currency: currency}
}

// Parse reads a decimal string such as "10.01" into Money at the given scale.
// Strings with more fractional digits than scale allows are rejected rather
// than rounded.
func Parse(s, currency string, scale int32) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return FromDecimal(d, currency, scale)
}

// FromDecimal converts d to Money at the given scale without rounding.
func FromDecimal(d decimal.Decimal, currency string, scale int32) (Money, error) {
	if scale < 0 || scale > MaxScale {
		return Money{}, fmt.Errorf("%w: %d", ErrInvalidScale, scale)
	}
	shifted := d.Shift(scale)
	if !shifted.IsInteger() {
		return Money{}, fmt.Errorf("%w: %s at scale %d", ErrPrecisionLoss, d, scale)
	}
	n := shifted.BigInt()
	if !n.IsInt64() {
		return Money{}, fmt.Errorf("%w: %s", ErrOverflow, d)
	}
	return Money{Amount: n.Int64(), Scale: scale, Currency: currency}, nil
}

// Decimal returns m as a decimal number of whole currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Amount, -m.Scale)
}

// String formats m with exactly Scale fractional digits, e.g. "30.00 USD".
func (m Money) String() string {
	return m.Decimal().StringFixed(m.Scale) + " " + m.Currency
}

// Sign returns -1, 0 or +1 according to the sign of the amount.
func (m Money) Sign() int {
	switch {
	case m.Amount > 0:
		return 1
	case m.Amount < 0:
		return -1
	}
	return 0
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// Negate flips the sign of the amount.
func (m Money) Negate() Money {
	return Money{Amount: -m.Amount, Scale: m.Scale, Currency: m.Currency}
}

// Abs returns m with a non-negative amount.
func (m Money) Abs() Money {
	if m.Amount < 0 {
		return m.Negate()
	}
	return m
}

// Rescale returns m expressed at scale. Scaling up is exact unless it
// overflows; scaling down fails with ErrPrecisionLoss when non-zero digits
// would be dropped.
func (m Money) Rescale(scale int32) (Money, error) {
	if scale < 0 || scale > MaxScale {
		return Money{}, fmt.Errorf("%w: %d", ErrInvalidScale, scale)
	}
	switch {
	case scale == m.Scale:
		return m, nil
	case scale > m.Scale:
		amount, ok := mulInt64(m.Amount, pow10(scale-m.Scale))
		if !ok {
			return Money{}, fmt.Errorf("%w: %s at scale %d", ErrOverflow, m, scale)
		}
		return Money{Amount: amount, Scale: scale, Currency: m.Currency}, nil
	default:
		f := pow10(m.Scale - scale)
		if m.Amount%f != 0 {
			return Money{}, fmt.Errorf("%w: %s at scale %d", ErrPrecisionLoss, m, scale)
		}
		return Money{Amount: m.Amount / f, Scale: scale, Currency: m.Currency}, nil
	}
}

// Add returns m + o. Both operands must share a currency.
func (m Money) Add(o Money) (Money, error) {
	a, b, err := align(m, o)
	if err != nil {
		return Money{}, err
	}
	sum, ok := addInt64(a.Amount, b.Amount)
	if !ok {
		return Money{}, fmt.Errorf("%w: %s + %s", ErrOverflow, m, o)
	}
	return Money{Amount: sum, Scale: a.Scale, Currency: a.Currency}, nil
}

// Sub returns m - o. Both operands must share a currency.
func (m Money) Sub(o Money) (Money, error) {
	return m.Add(o.Negate())
}

// Compare returns -1, 0 or 1 as m is less than, equal to or greater than o.
func (m Money) Compare(o Money) (int, error) {
	a, b, err := align(m, o)
	if err != nil {
		return 0, err
	}
	switch {
	case a.Amount < b.Amount:
		return -1, nil
	case a.Amount > b.Amount:
		return 1, nil
	}
	return 0, nil
}

// Equal reports whether m and o are the same currency and value. Scale is
// ignored: 10.0 USD equals 10.00 USD.
func (m Money) Equal(o Money) bool {
	c, err := m.Compare(o)
	return err == nil && c == 0
}

// Sum folds Add over ms starting from Zero(currency).
func Sum(currency string, ms ...Money) (Money, error) {
	total := Zero(currency)
	for _, m := range ms {
		var err error
		if total, err = total.Add(m); err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

func align(a, b Money) (Money, Money, error) {
	if a.Currency != b.Currency {
		return Money{}, Money{}, fmt.Errorf("%w: %q and %q", ErrCurrencyMismatch, a.Currency, b.Currency)
	}
	scale := max(a.Scale, b.Scale)
	a, err := a.Rescale(scale)
	if err != nil {
		return Money{}, Money{}, err
	}
	b, err = b.Rescale(scale)
	if err != nil {
		return Money{}, Money{}, err
	}
	return a, b, nil
}

func pow10(n int32) int64 {
	p := int64(1)
	for ; n > 0; n-- {
		p *= 10
	}
	return p
}

// mulInt64 multiplies a by a positive factor f, reporting overflow.
func mulInt64(a, f int64) (int64, bool) {
	if a == 0 {
		return 0, true
	}
	c := a * f
	if c/f != a || (a == math.MinInt64 && f != 1) {
		return 0, false
	}
	return c, true
}

func addInt64(a, b int64) (int64, bool) {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		return 0, false
	}
	return c, true
}
