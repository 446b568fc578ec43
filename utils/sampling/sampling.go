// Package sampling implements deterministic and secure sources of random bytes and integers.
package sampling

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
)

// NewSeed returns 32 bytes sampled from crypto/rand.
func NewSeed() (seed [32]byte) {
	if _, err := rand.Read(seed[:]); err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
	return
}

// NewSource returns a [mrand.Rand] seeded with the given seed.
// The stream is a deterministic function of the seed: two sources
// created with the same seed produce the same sequence.
func NewSource(seed [32]byte) *mrand.Rand {
	return mrand.New(mrand.NewChaCha8(seed))
}

// RandUint64 returns a uniform value between 0 and 0xFFFFFFFFFFFFFFFF read from prng.
func RandUint64(prng PRNG) uint64 {
	b := make([]byte, 8)
	if _, err := prng.Read(b); err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
	return binary.BigEndian.Uint64(b)
}
