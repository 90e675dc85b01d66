package simd

import "math/bits"

func TrailingZeros(x uint64) int { return bits.TrailingZeros64(x) }

func LeadingZeros(x uint64) int { return bits.LeadingZeros64(x) }

func PopCount(x uint64) int { return bits.OnesCount64(x) }

// ClearLowest clears the lowest set bit (blsr).
func ClearLowest(x uint64) uint64 { return x & (x - 1) }

// PrefixXor sets bit i of the result to the xor of bits 0..i of x. It is the
// carry-less multiply by all-ones, done with shift doublings.
func PrefixXor(x uint64) uint64 {
	x ^= x << 1
	x ^= x << 2
	x ^= x << 4
	x ^= x << 8
	x ^= x << 16
	x ^= x << 32
	return x
}

// Follows shifts m up one bit, shifting in the top bit of the previous
// block, and records the top bit of m for the next block.
func Follows(m uint64, overflow *uint64) uint64 {
	r := m<<1 | *overflow
	*overflow = m >> 63
	return r
}
