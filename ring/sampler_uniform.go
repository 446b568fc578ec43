package ring

import (
	"encoding/binary"
	"math/bits"

	"github.com/phuocchubeo123/fimd/utils/sampling"
)

// UniformSampler samples residues uniformly in [0, p) from a [sampling.PRNG]
// by rejection sampling. It cannot be used concurrently.
type UniformSampler struct {
	prng   sampling.PRNG
	p      uint64
	mask   uint64
	buffer []byte
	ptr    int
}

// NewUniformSampler creates a new [UniformSampler] for the modulus p.
func NewUniformSampler(prng sampling.PRNG, p uint64) *UniformSampler {
	return &UniformSampler{
		prng:   prng,
		p:      p,
		mask:   (1 << bits.Len64(p-1)) - 1,
		buffer: make([]byte, 1024),
		ptr:    1024,
	}
}

// Uint64 returns a uniform residue in [0, p).
func (u *UniformSampler) Uint64() (x uint64) {
	for {
		if u.ptr == len(u.buffer) {
			if _, err := u.prng.Read(u.buffer); err != nil {
				// Sanity check, this error should not happen.
				panic(err)
			}
			u.ptr = 0
		}

		x = binary.BigEndian.Uint64(u.buffer[u.ptr:u.ptr+8]) & u.mask
		u.ptr += 8

		if x < u.p {
			return
		}
	}
}

// Read fills pol with uniform residues in [0, p).
func (u *UniformSampler) Read(pol Poly) {
	for i := range pol {
		pol[i] = u.Uint64()
	}
}

// ReadNew returns a new polynomial with n uniform coefficients in [0, p).
func (u *UniformSampler) ReadNew(n int) (pol Poly) {
	pol = NewPoly(n)
	u.Read(pol)
	return
}
