package types

import (
	"fmt"
	"math/big"
	stdmath "math"

	"cosmossdk.io/math"
)

// decimalPrecision is the number of fractional digits Decimal (LegacyDec)
// carries — 18, the same precision every keeper in this repository stores
// money and ratios at.
const decimalPrecision = 18

// FloorLn computes the natural logarithm of x as a Decimal. Following the
// idiom already used by this pack's own oracle module
// (x/oracle/keeper/aggregation.go's CalculateZScore/CalculateKalmanTWAP in
// the paw-chain repository) for transcendental math over fixed-point
// types: convert to float64, compute with the standard math package, and
// reconstruct the fixed-point value by formatting digits rather than by
// round-tripping through LegacyDec's own (round-to-nearest) arithmetic.
// The result carries float64 precision (about 16 significant digits): it
// is not the exact logarithm truncated toward negative infinity at 18
// fractional digits, and its trailing digits may lie above the exact value.
func FloorLn(x HighDecimal) (math.LegacyDec, error) {
	if !x.IsPositive() {
		return math.LegacyDec{}, fmt.Errorf("%w: ln(%s)", ErrInvalidPriceSqrt, x.String())
	}
	f := x.Float64()
	lnVal := stdmath.Log(f)
	dec, err := floorDecFromFloat(lnVal)
	if err != nil {
		return math.LegacyDec{}, fmt.Errorf("%w: %s", ErrNonFiniteLogarithm, err)
	}
	return dec, nil
}

// ExpDec computes exp(y) for a Decimal y, returning a Decimal. Used by
// GeometricMean to turn an arithmetic mean of log-accumulator slopes back
// into a price. Same float64-bridge idiom as FloorLn.
func ExpDec(y math.LegacyDec) (math.LegacyDec, error) {
	f, err := y.Float64()
	if err != nil {
		return math.LegacyDec{}, err
	}
	expVal := stdmath.Exp(f)
	return roundDecFromFloat(expVal)
}

// floorDecFromFloat converts f into a LegacyDec at decimalPrecision
// fractional digits, applying math.Floor to f scaled by 10^18 rather than
// fmt's round-to-nearest formatting. The scaling multiplication itself
// rounds to nearest, and once |f| * 10^18 exceeds 2^53 the scaled float is
// already an integer, so for most inputs the floor changes nothing and the
// digits are those of the float64 value.
func floorDecFromFloat(f float64) (math.LegacyDec, error) {
	return decFromScaledFloat(f, stdmath.Floor)
}

// roundDecFromFloat converts f into a LegacyDec rounded to nearest at
// decimalPrecision fractional digits. exp() carries no directed-rounding
// requirement in the spec, so ordinary rounding is used.
func roundDecFromFloat(f float64) (math.LegacyDec, error) {
	return decFromScaledFloat(f, stdmath.Round)
}

func decFromScaledFloat(f float64, round func(float64) float64) (math.LegacyDec, error) {
	if stdmath.IsNaN(f) || stdmath.IsInf(f, 0) {
		return math.LegacyDec{}, fmt.Errorf("ammoracle: value %v is not finite", f)
	}

	scale := stdmath.Pow(10, decimalPrecision)
	scaled := round(f * scale)

	bi, _ := big.NewFloat(scaled).Int(nil)
	neg := bi.Sign() < 0
	abs := new(big.Int).Abs(bi)

	digits := abs.String()
	for len(digits) <= decimalPrecision {
		digits = "0" + digits
	}
	intPart := digits[:len(digits)-decimalPrecision]
	fracPart := digits[len(digits)-decimalPrecision:]

	s := intPart + "." + fracPart
	if neg {
		s = "-" + s
	}
	return math.LegacyNewDecFromStr(s)
}

// LinearInterpolation interpolates the log-accumulator at xTarget between
// two stored points (xLeft, yLeft) and (xRight, yRight), per spec §4.2's
// binary-search-and-interpolation algorithm.
func LinearInterpolation(xLeft, xRight int64, yLeft, yRight math.LegacyDec, xTarget int64) math.LegacyDec {
	slope := yRight.Sub(yLeft).QuoInt64(xRight - xLeft)
	return yLeft.Add(slope.MulInt64(xTarget - xLeft))
}

// ArithmeticMean returns the slope of the log-accumulator between two
// minute timestamps — the time-weighted arithmetic mean of
// ln(price_sqrt) over that interval.
func ArithmeticMean(xLeft, xRight int64, yLeft, yRight math.LegacyDec) math.LegacyDec {
	return yRight.Sub(yLeft).QuoInt64(xRight - xLeft)
}

// GeometricMean exponentiates the arithmetic mean of log-accumulator
// slopes, yielding the geometric mean of the square-root price over
// [xLeft, xRight] (spec §4.2's observation_intervals).
func GeometricMean(xLeft, xRight int64, yLeft, yRight math.LegacyDec) (math.LegacyDec, error) {
	exponent := ArithmeticMean(xLeft, xRight, yLeft, yRight)
	return ExpDec(exponent)
}
