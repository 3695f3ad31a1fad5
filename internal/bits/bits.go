// Package bits provides low-level bit manipulation primitives.
package bits

import "math/bits"

// IsPow2 reports whether n is a power of two. Zero is not.
func IsPow2(n uint32) bool {
	return n != 0 && n&(n-1) == 0
}

// NextPow2 returns the smallest power of two >= n, and 1 for n == 0.
// n must not exceed 1<<31.
func NextPow2(n uint32) uint32 {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len32(n-1)
}

// Wrap maps slot i (possibly past the end) into a table of size n.
// n must be a power of two.
func Wrap(i, n uint32) uint32 {
	return i & (n - 1)
}
