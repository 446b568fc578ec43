package ring

import (
	"fmt"
	"math/bits"
)

// CyclotomicRing is the negacyclic ring Z_p[X]/(X^N+1) for N a power of two.
// Elements are [Poly] with exactly N coefficients.
// Multiplication uses the NTT if 2N divides p-1.
type CyclotomicRing struct {
	n   int
	p   uint64
	ntt *NTTTable
}

// NewCyclotomicRing creates a new [CyclotomicRing].
// Returns an error if N is not a power of two or p is not prime.
func NewCyclotomicRing(N int, p uint64) (r *CyclotomicRing, err error) {

	if N < 1 || N&(N-1) != 0 {
		return nil, fmt.Errorf("NewCyclotomicRing: invalid ring degree N=%d (must be a power of two)", N)
	}

	if err = CheckPrime(p); err != nil {
		return nil, fmt.Errorf("NewCyclotomicRing: %w", err)
	}

	r = &CyclotomicRing{n: N, p: p}

	if (p-1)%(uint64(N)<<1) == 0 {
		if r.ntt, err = NewNTTTable(N, p); err != nil {
			return nil, fmt.Errorf("NewCyclotomicRing: %w", err)
		}
	}

	return
}

// N returns the ring degree.
func (r *CyclotomicRing) N() int {
	return r.n
}

// LogN returns log2 of the ring degree.
func (r *CyclotomicRing) LogN() int {
	return bits.Len64(uint64(r.n)) - 1
}

// Modulus returns the prime modulus p.
func (r *CyclotomicRing) Modulus() uint64 {
	return r.p
}

// NthRoot returns 2N.
func (r *CyclotomicRing) NthRoot() uint64 {
	return uint64(r.n) << 1
}

// NTTTable returns the NTT constants of the ring, or nil if 2N does not divide p-1.
func (r *CyclotomicRing) NTTTable() *NTTTable {
	return r.ntt
}

// NewPoly returns the zero element.
func (r *CyclotomicRing) NewPoly() Poly {
	return NewPoly(r.n)
}

// Add returns a + b.
func (r *CyclotomicRing) Add(a, b Poly) (c Poly) {
	c = r.NewPoly()
	for i := range c {
		c[i] = AddMod(a[i], b[i], r.p)
	}
	return
}

// Sub returns a - b.
func (r *CyclotomicRing) Sub(a, b Poly) (c Poly) {
	c = r.NewPoly()
	for i := range c {
		c[i] = SubMod(a[i], b[i], r.p)
	}
	return
}

// Neg returns -a.
func (r *CyclotomicRing) Neg(a Poly) (c Poly) {
	c = r.NewPoly()
	for i := range c {
		c[i] = NegMod(a[i], r.p)
	}
	return
}

// MulScalar returns c * a for c in Z_p.
func (r *CyclotomicRing) MulScalar(a Poly, c uint64) (b Poly) {
	b = r.NewPoly()
	c %= r.p
	for i := range b {
		b[i] = MulMod(a[i], c, r.p)
	}
	return
}

// Mul returns a * b mod X^N+1.
func (r *CyclotomicRing) Mul(a, b Poly) (c Poly) {

	if r.ntt == nil {
		return r.mulSchoolbook(a, b)
	}

	p := r.p

	aNTT := r.NewPoly()
	c = r.NewPoly()
	r.ntt.Forward(a, aNTT, p)
	r.ntt.Forward(b, c, p)

	for i := range c {
		c[i] = MulMod(c[i], aNTT[i], p)
	}

	r.ntt.Backward(c, c, p)

	return
}

func (r *CyclotomicRing) mulSchoolbook(a, b Poly) (c Poly) {

	N, p := r.n, r.p
	c = r.NewPoly()

	for i := 0; i < N; i++ {
		if a[i] == 0 {
			continue
		}
		for j := 0; j < N; j++ {
			v := MulMod(a[i], b[j], p)
			if k := i + j; k < N {
				c[k] = AddMod(c[k], v, p)
			} else {
				c[k-N] = SubMod(c[k-N], v, p)
			}
		}
	}

	return
}

// Automorphism returns a(X^galEl) mod X^N+1. galEl must be odd.
func (r *CyclotomicRing) Automorphism(a Poly, galEl uint64) (b Poly) {

	if galEl&1 == 0 {
		panic(fmt.Errorf("cannot Automorphism: galEl=%d is even", galEl))
	}

	N := uint64(r.n)
	mask := (N << 1) - 1
	galEl &= mask

	b = r.NewPoly()

	for i := uint64(0); i < N; i++ {
		j := (i * galEl) & mask
		if j < N {
			b[j] = a[i]
		} else {
			b[j-N] = NegMod(a[i], r.p)
		}
	}

	return
}

// GaloisElementForFrobenius returns p^k mod 2N, the Galois element of the
// automorphism a -> a^{p^k}. Negative k are supported.
func (r *CyclotomicRing) GaloisElementForFrobenius(k int) uint64 {
	NthRoot := r.NthRoot()
	galEl := ModExp(r.p, uint64(abs(k)), NthRoot)
	if k < 0 {
		// The group (Z/2NZ)^* has exponent dividing N.
		galEl = ModExp(galEl, uint64(r.n)-1, NthRoot)
	}
	return galEl
}

// Frobenius returns a^{p^k}.
func (r *CyclotomicRing) Frobenius(a Poly, k int) Poly {
	return r.Automorphism(a, r.GaloisElementForFrobenius(k))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
