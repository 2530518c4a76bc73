package liburing

import "math/bits"

// fls returns the 1-based position of the most significant set bit, 0 for 0.
func fls(x uint32) int {
	return bits.Len32(x)
}

// RoundupPow2 returns the smallest power of two not less than n.
// n must be in [1, 1<<31].
func RoundupPow2(n uint32) uint32 {
	if n <= 1 {
		return 1
	}
	return 1 << fls(n-1)
}

// npages returns log2 of the number of pages needed for size bytes,
// with the page count rounded up to a power of two.
func npages(size uint64, pageSize uint64) uint64 {
	size--
	size /= pageSize
	return uint64(fls(uint32(size)))
}
