// internal/guidance/rotation/hash.go
package rotation

import "strconv"

// FNV-1a 32-bit constants.
const (
	fnvOffset32 uint32 = 2166136261
	fnvPrime32  uint32 = 16777619
)

// Hash32 is FNV-1a over the UTF-8 bytes of s. It is deliberately
// hand-rolled rather than delegated to a hashing primitive: the exact
// sequence of selections it drives must be reproducible by any client
// of the rotation contract, so the algorithm itself is part of the
// contract and stays frozen here.
func Hash32(s string) uint32 {
	h := fnvOffset32
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime32
	}
	return h
}

// step advances the hash state for the seeded pick-and-remove loop by
// re-hashing the decimal rendering of the current state.
func step(state uint32) uint32 {
	return Hash32(strconv.FormatUint(uint64(state), 10))
}
