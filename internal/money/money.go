package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is an exact decimal monetary value. The zero value is zero money.
// Arithmetic never loses precision; rounding to the currency minor unit is the
// caller's concern at the boundary, not here.
type Amount struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{}

// New builds an Amount from integer units and an exponent, e.g. New(150050, -2)
// is 1500.50.
func New(value int64, exp int32) Amount {
	return Amount{d: decimal.New(value, exp)}
}

// Parse converts a decimal string such as "1000.00" into an Amount.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return Amount{d: d}, nil
}

// MustParse is Parse for trusted literals. It panics on malformed input.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d)}
}

// Sub returns a - b. The result may be negative; callers decide whether that
// is acceptable before committing it anywhere.
func (a Amount) Sub(b Amount) Amount {
	return Amount{d: a.d.Sub(b.d)}
}

// Neg returns -a.
func (a Amount) Neg() Amount {
	return Amount{d: a.d.Neg()}
}

// Cmp compares two amounts: -1 if a < b, 0 if equal, 1 if a > b.
func (a Amount) Cmp(b Amount) int {
	return a.d.Cmp(b.d)
}

// Equal reports whether the two amounts are numerically equal.
func (a Amount) Equal(b Amount) bool {
	return a.d.Equal(b.d)
}

// LessThan reports whether a < b.
func (a Amount) LessThan(b Amount) bool {
	return a.d.LessThan(b.d)
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

// IsPositive reports whether the amount is above zero.
func (a Amount) IsPositive() bool {
	return a.d.IsPositive()
}

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

// String renders the amount with two minor-unit digits, e.g. "1500.50".
func (a Amount) String() string {
	return a.d.StringFixed(2)
}

// Decimal exposes the underlying decimal for storage drivers.
func (a Amount) Decimal() decimal.Decimal {
	return a.d
}

// FromDecimal wraps a decimal read back from storage.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d}
}

// MarshalJSON renders the amount as a JSON string to keep exactness on the wire.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts both quoted and bare decimal literals.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
