package ledger

import (
	"encoding/json"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// NumericScale is the number of decimal places a ledger Numeric carries.
const NumericScale = 10

// Numeric is a fixed point decimal with at most NumericScale fractional digits.
// It is encoded on the wire as a decimal string ("100.5").
//
// The zero value is a valid zero.
type Numeric struct {
	dec math.LegacyDec
}

// NewNumeric returns i as a Numeric.
func NewNumeric(i int64) Numeric {
	return Numeric{dec: math.LegacyNewDec(i)}
}

// ZeroNumeric returns 0.
func ZeroNumeric() Numeric {
	return Numeric{dec: math.LegacyZeroDec()}
}

// ParseNumeric parses a decimal string such as "12.5".
func ParseNumeric(s string) (Numeric, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Numeric{}, errorsmod.Wrap(ErrInvalidNumeric, "empty string")
	}
	if _, frac, ok := strings.Cut(s, "."); ok && len(frac) > NumericScale {
		return Numeric{}, errorsmod.Wrapf(ErrInvalidNumeric, "%q has more than %d decimal places", s, NumericScale)
	}
	d, err := math.LegacyNewDecFromStr(s)
	if err != nil {
		return Numeric{}, errorsmod.Wrapf(ErrInvalidNumeric, "%q: %s", s, err)
	}
	return Numeric{dec: d}, nil
}

// MustParseNumeric is ParseNumeric for constants and tests.
func MustParseNumeric(s string) Numeric {
	n, err := ParseNumeric(s)
	if err != nil {
		panic(err)
	}
	return n
}

func (n Numeric) get() math.LegacyDec {
	if n.dec.IsNil() {
		return math.LegacyZeroDec()
	}
	return n.dec
}

// Dec exposes the underlying decimal.
func (n Numeric) Dec() math.LegacyDec { return n.get() }

func (n Numeric) Add(o Numeric) Numeric { return Numeric{dec: n.get().Add(o.get())} }
func (n Numeric) Sub(o Numeric) Numeric { return Numeric{dec: n.get().Sub(o.get())} }

// Mul multiplies and truncates the product to NumericScale decimal places.
func (n Numeric) Mul(o Numeric) Numeric {
	return Numeric{dec: truncate(n.get().Mul(o.get()))}
}

// QuoInt64 divides by d, truncating to NumericScale decimal places. d must not be zero.
func (n Numeric) QuoInt64(d int64) Numeric {
	return Numeric{dec: truncate(n.get().QuoInt64(d))}
}

func truncate(d math.LegacyDec) math.LegacyDec {
	const scale = 10_000_000_000
	return d.MulInt64(scale).TruncateDec().QuoInt64(scale)
}

func (n Numeric) IsPositive() bool { return n.get().IsPositive() }
func (n Numeric) IsNegative() bool { return n.get().IsNegative() }
func (n Numeric) IsZero() bool { return n.get().IsZero() }
func (n Numeric) GTE(o Numeric) bool { return n.get().GTE(o.get()) }
func (n Numeric) Equal(o Numeric) bool { return n.get().Equal(o.get()) }

// String renders the value without trailing zeros, keeping one fractional digit ("100.0").
func (n Numeric) String() string {
	s := n.get().String()
	if !strings.Contains(s, ".") {
		return s + ".0"
	}
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

func (n Numeric) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.String())
}

// UnmarshalJSON accepts both the string form and a bare JSON number.
func (n *Numeric) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var num json.Number
		if err := json.Unmarshal(b, &num); err != nil {
			return errorsmod.Wrapf(ErrInvalidNumeric, "%s", b)
		}
		s = num.String()
	}
	parsed, err := ParseNumeric(s)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// SumNumeric adds up values.
func SumNumeric(values ...Numeric) Numeric {
	total := ZeroNumeric()
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
