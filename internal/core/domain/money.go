package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a fixed-precision amount held as integer paise (minor units).
// All arithmetic happens on the integer representation; decimal.Decimal is
// only the boundary type for rates, request payloads and database columns.
type Money struct {
	paise int64
}

// ZeroMoney is the additive identity.
var ZeroMoney = Money{}

// NewMoneyFromPaise builds a Money from a raw minor-unit count.
func NewMoneyFromPaise(paise int64) Money {
	return Money{paise: paise}
}

// NewMoneyFromDecimal converts a decimal rupee amount to Money, rounding
// half-up to the nearest paisa. This is the single place where external
// decimal input is quantized.
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{paise: d.Shift(2).Round(0).IntPart()}
}

// Paise returns the raw minor-unit count.
func (m Money) Paise() int64 {
	return m.paise
}

// Decimal returns the amount in rupees with two fractional digits.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.paise, -2)
}

func (m Money) Add(o Money) Money {
	return Money{paise: m.paise + o.paise}
}

func (m Money) Sub(o Money) Money {
	return Money{paise: m.paise - o.paise}
}

func (m Money) Neg() Money {
	return Money{paise: -m.paise}
}

// MulDecimal applies a rate (e.g. a tax percentage already divided by 100, or
// a quantity) to the amount and rounds the result half-up to the nearest
// paisa. Rounding happens exactly once, at this boundary.
func (m Money) MulDecimal(rate decimal.Decimal) Money {
	return NewMoneyFromDecimal(m.Decimal().Mul(rate))
}

func (m Money) IsZero() bool {
	return m.paise == 0
}

func (m Money) IsNegative() bool {
	return m.paise < 0
}

func (m Money) IsPositive() bool {
	return m.paise > 0
}

// Cmp returns -1, 0 or 1 comparing m against o.
func (m Money) Cmp(o Money) int {
	switch {
	case m.paise < o.paise:
		return -1
	case m.paise > o.paise:
		return 1
	default:
		return 0
	}
}

func (m Money) Equal(o Money) bool {
	return m.paise == o.paise
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON renders the amount as a decimal string ("1234.50"), matching
// how decimal.Decimal amounts appear elsewhere in the API.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts either a quoted or bare decimal number.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	*m = NewMoneyFromDecimal(d)
	return nil
}
