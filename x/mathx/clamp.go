package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SatSub returns a-b, floored at zero instead of wrapping.
func SatSub[T constraints.Unsigned](a, b T) T {
	if b > a {
		return 0
	}
	return a - b
}

// WrapDiv divides a by b, substituting 1 for a zero divisor.
func WrapDiv[T constraints.Unsigned](a, b T) T {
	if b == 0 {
		b = 1
	}
	return a / b
}
