package types

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// HighDecimal is the high-precision fixed-point type used for the square
// root price and its within-minute accumulation (spec §3). It wraps
// math/big.Rat rather than cosmossdk.io/math.Dec: the sub-minute sum must
// be treated as exact, and big.Rat's arithmetic never rounds, which is a
// strictly stronger guarantee than any fixed-precision decimal gives.
type HighDecimal struct {
	rat *big.Rat
}

// ZeroHighDecimal returns the additive identity.
func ZeroHighDecimal() HighDecimal {
	return HighDecimal{rat: new(big.Rat)}
}

// NewHighDecimalFromString parses a decimal or rational string (e.g.
// "1.23456789") into a HighDecimal.
func NewHighDecimalFromString(s string) (HighDecimal, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return HighDecimal{}, fmt.Errorf("ammoracle: %q is not a valid decimal", s)
	}
	return HighDecimal{rat: r}, nil
}

// MustNewHighDecimalFromString is NewHighDecimalFromString, panicking on
// malformed input. Intended for constants and tests.
func MustNewHighDecimalFromString(s string) HighDecimal {
	d, err := NewHighDecimalFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d HighDecimal) ratOrZero() *big.Rat {
	if d.rat == nil {
		return new(big.Rat)
	}
	return d.rat
}

// Add returns d + o.
func (d HighDecimal) Add(o HighDecimal) HighDecimal {
	return HighDecimal{rat: new(big.Rat).Add(d.ratOrZero(), o.ratOrZero())}
}

// Sub returns d - o.
func (d HighDecimal) Sub(o HighDecimal) HighDecimal {
	return HighDecimal{rat: new(big.Rat).Sub(d.ratOrZero(), o.ratOrZero())}
}

// Mul returns d * o.
func (d HighDecimal) Mul(o HighDecimal) HighDecimal {
	return HighDecimal{rat: new(big.Rat).Mul(d.ratOrZero(), o.ratOrZero())}
}

// MulInt64 returns d * n.
func (d HighDecimal) MulInt64(n int64) HighDecimal {
	return HighDecimal{rat: new(big.Rat).Mul(d.ratOrZero(), new(big.Rat).SetInt64(n))}
}

// Quo returns d / o. Panics on division by zero, matching the fatal
// "programming error" treatment spec §4.1 assigns to illegal calls.
func (d HighDecimal) Quo(o HighDecimal) HighDecimal {
	if o.IsZero() {
		panic("ammoracle: division by zero")
	}
	return HighDecimal{rat: new(big.Rat).Quo(d.ratOrZero(), o.ratOrZero())}
}

// QuoInt64 returns d / n.
func (d HighDecimal) QuoInt64(n int64) HighDecimal {
	if n == 0 {
		panic("ammoracle: division by zero")
	}
	return HighDecimal{rat: new(big.Rat).Quo(d.ratOrZero(), new(big.Rat).SetInt64(n))}
}

// IsZero reports whether d == 0.
func (d HighDecimal) IsZero() bool {
	return d.ratOrZero().Sign() == 0
}

// IsPositive reports whether d > 0.
func (d HighDecimal) IsPositive() bool {
	return d.ratOrZero().Sign() > 0
}

// Sign returns -1, 0, or 1.
func (d HighDecimal) Sign() int {
	return d.ratOrZero().Sign()
}

// Equal reports whether d == o.
func (d HighDecimal) Equal(o HighDecimal) bool {
	return d.ratOrZero().Cmp(o.ratOrZero()) == 0
}

// Float64 converts d to the nearest float64, for the transcendental
// helpers in numeric.go (ln/exp have no exact fixed-point form).
func (d HighDecimal) Float64() float64 {
	f, _ := d.ratOrZero().Float64()
	return f
}

// String renders d as a decimal rounded to 36 fractional digits, for
// logging and event attributes. Values whose decimal expansion does not
// end within 36 digits (e.g. a sum divided by 59) do not round-trip.
func (d HighDecimal) String() string {
	return d.ratOrZero().FloatString(36)
}

type highDecimalWire struct {
	Num string `json:"num"`
	Den string `json:"den"`
}

// MarshalJSON stores the exact numerator/denominator so persisted state
// round-trips losslessly through the KVStore.
func (d HighDecimal) MarshalJSON() ([]byte, error) {
	r := d.ratOrZero()
	return json.Marshal(highDecimalWire{Num: r.Num().String(), Den: r.Denom().String()})
}

func (d *HighDecimal) UnmarshalJSON(b []byte) error {
	var w highDecimalWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	num, ok := new(big.Int).SetString(w.Num, 10)
	if !ok {
		return fmt.Errorf("ammoracle: invalid numerator %q", w.Num)
	}
	den, ok := new(big.Int).SetString(w.Den, 10)
	if !ok {
		return fmt.Errorf("ammoracle: invalid denominator %q", w.Den)
	}
	if den.Sign() == 0 {
		den.SetInt64(1)
	}
	d.rat = new(big.Rat).SetFrac(num, den)
	return nil
}
