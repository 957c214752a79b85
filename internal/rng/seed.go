package rng

const golden = 0x9E3779B9

// CombineSeed mixes two 32-bit values into a new seed. It is pure and, for a
// fixed a, a bijection in b.
func CombineSeed(a, b uint32) uint32 {
	x := a ^ (b + golden + (a << 6) + (a >> 2))
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	return avalanche(x)
}

// avalanche is a murmur-style finalizer.
func avalanche(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}
