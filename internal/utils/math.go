package utils

import (
	"golang.org/x/exp/constraints"
)

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// AddOverflows reports whether a + b overflows the integer type.
func AddOverflows[T constraints.Signed](a, b T) bool {
	sum := a + b
	return (b > 0 && sum < a) || (b < 0 && sum > a)
}
