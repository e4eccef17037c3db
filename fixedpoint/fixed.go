// Package fixedpoint implements the signed 17.14 binary fixed-point
// arithmetic the MLFQS scheduler policy uses for load-average and
// recent-CPU estimates. 14 fractional bits give f = 1<<14; all values
// are carried as plain int64 with the fractional scale implicit, the
// same representation Pintos documents for its fixed-point helpers.
package fixedpoint

const fracBits = 14

// f is the fixed-point scaling factor, 2^14.
const f = int64(1) << fracBits

// Fixed is a signed 17.14 fixed-point number.
type Fixed int64

// FromInt converts an integer to fixed-point.
func FromInt(n int) Fixed {
	return Fixed(int64(n) * f)
}

// ToIntTrunc converts to an integer, rounding toward zero.
func ToIntTrunc(x Fixed) int {
	return int(int64(x) / f)
}

// ToIntRound converts to an integer, rounding to nearest, ties away from
// zero (half-away-from-zero), as required by get_load_avg/get_recent_cpu.
func ToIntRound(x Fixed) int {
	v := int64(x)
	if v >= 0 {
		return int((v + f/2) / f)
	}
	return int((v - f/2) / f)
}

// Add returns x + y.
func Add(x, y Fixed) Fixed { return x + y }

// Sub returns x - y.
func Sub(x, y Fixed) Fixed { return x - y }

// AddInt returns x + n.
func AddInt(x Fixed, n int) Fixed { return x + FromInt(n) }

// SubInt returns x - n.
func SubInt(x Fixed, n int) Fixed { return x - FromInt(n) }

// Mul returns x * y.
func Mul(x, y Fixed) Fixed {
	return Fixed((int64(x) * int64(y)) / f)
}

// MulInt returns x * n.
func MulInt(x Fixed, n int) Fixed { return x * Fixed(n) }

// Div returns x / y.
func Div(x, y Fixed) Fixed {
	return Fixed((int64(x) * f) / int64(y))
}

// DivInt returns x / n.
func DivInt(x Fixed, n int) Fixed { return x / Fixed(n) }

// Clamp restricts x to [lo, hi] (all as integers, returning an integer —
// used by the MLFQS priority refresh after truncating recent_cpu/4).
func Clamp(x, lo, hi int) int {
	switch {
	case x < lo:
		return lo
	case x > hi:
		return hi
	default:
		return x
	}
}
