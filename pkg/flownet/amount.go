package flownet

import (
	"github.com/shopspring/decimal"
)

// infinityLiteral is the textual form of the unbounded amount, matching the
// rendering used for sink capacity.
const infinityLiteral = "Infinity"

// Amount is an exact, arbitrary-precision quantity of flow or capacity.
//
// Finite amounts are backed by decimal arithmetic, so capacities like 0.1
// accumulate without floating-point drift. A distinct positive-infinity
// sentinel exists for two purposes:
//   - the starting accumulator when scanning a path for its bottleneck
//   - the default removal amount that unconditionally deletes an edge
//
// The zero value is the finite amount 0. Amount is a value type and safe
// to copy.
type Amount struct {
	inf bool
	d   decimal.Decimal
}

// Infinite is the positive-infinity sentinel. It is greater than every
// finite Amount and absorbs addition and subtraction.
var Infinite = Amount{inf: true}

// Zero is the finite amount 0.
var Zero = Amount{}

// NewAmount returns a finite Amount from an integer value.
func NewAmount(v int64) Amount {
	return Amount{d: decimal.NewFromInt(v)}
}

// NewAmountFromFloat returns a finite Amount from a float64 value.
// The conversion is exact for the decimal representation of v.
func NewAmountFromFloat(v float64) Amount {
	return Amount{d: decimal.NewFromFloat(v)}
}

// AmountFromDecimal wraps an existing decimal value.
func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d}
}

// AmountFromString parses a finite Amount from its decimal string form.
// The literal "Infinity" parses to the Infinite sentinel.
func AmountFromString(s string) (Amount, error) {
	if s == infinityLiteral {
		return Infinite, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, err
	}
	return Amount{d: d}, nil
}

// IsInfinite reports whether a is the infinity sentinel.
func (a Amount) IsInfinite() bool {
	return a.inf
}

// IsZero reports whether a is the finite amount 0.
func (a Amount) IsZero() bool {
	return !a.inf && a.d.IsZero()
}

// Sign returns -1, 0, or 1 for negative, zero, and positive amounts.
// The infinity sentinel is positive.
func (a Amount) Sign() int {
	if a.inf {
		return 1
	}
	return a.d.Sign()
}

// Add returns a + b. Infinity absorbs addition.
func (a Amount) Add(b Amount) Amount {
	if a.inf || b.inf {
		return Infinite
	}
	return Amount{d: a.d.Add(b.d)}
}

// Sub returns a - b. An infinite minuend stays infinite; subtracting
// infinity from a finite amount clamps to zero.
func (a Amount) Sub(b Amount) Amount {
	if a.inf {
		return Infinite
	}
	if b.inf {
		return Zero
	}
	return Amount{d: a.d.Sub(b.d)}
}

// Cmp compares a and b, returning -1, 0, or 1. Infinity compares greater
// than every finite amount and equal to itself.
func (a Amount) Cmp(b Amount) int {
	switch {
	case a.inf && b.inf:
		return 0
	case a.inf:
		return 1
	case b.inf:
		return -1
	}
	return a.d.Cmp(b.d)
}

// Equal reports whether a and b represent the same quantity.
func (a Amount) Equal(b Amount) bool {
	return a.Cmp(b) == 0
}

// Min returns the smaller of a and b.
func (a Amount) Min(b Amount) Amount {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Decimal returns the finite value of a. The result is meaningless for
// the infinity sentinel; callers check IsInfinite first.
func (a Amount) Decimal() decimal.Decimal {
	return a.d
}

// String renders the amount in decimal notation, or "Infinity" for the
// sentinel.
func (a Amount) String() string {
	if a.inf {
		return infinityLiteral
	}
	return a.d.String()
}

// MarshalText implements encoding.TextMarshaler.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := AmountFromString(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalJSON renders finite amounts as JSON numbers and the sentinel as
// the string "Infinity".
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.inf {
		return []byte(`"` + infinityLiteral + `"`), nil
	}
	return []byte(a.d.String()), nil
}

// UnmarshalJSON accepts JSON numbers, numeric strings, and the string
// "Infinity".
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return a.UnmarshalText([]byte(s))
}
