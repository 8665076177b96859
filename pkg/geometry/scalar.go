package geometry

import "golang.org/x/exp/constraints"

func Clamp[T constraints.Ordered](x, low, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

// Lerp linearly interpolates between a and b.
func Lerp[T constraints.Float](t, a, b T) T {
	return (1-t)*a + t*b
}

// Sign returns -1, 0 or 1.
func Sign[T constraints.Float](v T) T {
	if v > 0 {
		return 1
	} else if v < 0 {
		return -1
	}
	return 0
}
