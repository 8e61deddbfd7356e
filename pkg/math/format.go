package math

import (
	"math"
	"strconv"
	"strings"
)

// DefaultPrecision is the number of decimals kept when values are serialized.
const DefaultPrecision = 8

// Round rounds v to precision decimals, half to even.
// A negative precision returns v unchanged.
func Round(v float64, precision int) float64 {
	if precision < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	pow := math.Pow(10, float64(precision))
	r := math.RoundToEven(v*pow) / pow
	if math.IsInf(r, 0) || math.IsNaN(r) {
		// v*pow overflowed; v has no fractional digits left to round.
		return v
	}
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

// FormatFloat rounds v and renders it in plain decimal notation, independent of
// locale: no exponent, '.' as separator, no trailing zeros.
func FormatFloat(v float64, precision int) string {
	return strconv.FormatFloat(Round(v, precision), 'f', -1, 64)
}

// FormatFloats renders values space separated.
func FormatFloats(precision int, values ...float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatFloat(v, precision)
	}
	return strings.Join(parts, " ")
}

// FormatVec3 renders "x y z".
func FormatVec3(v Vec3, precision int) string {
	return FormatFloats(precision, v.X, v.Y, v.Z)
}
