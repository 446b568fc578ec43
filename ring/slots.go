package ring

import (
	"fmt"
	"math/bits"
)

// SlotDecomposition implements the CRT isomorphism
//
//	Z_p[X]/(X^N+1) = prod_{i<S} Z_p[Y]/(Y^d - zeta_i)
//
// for p = 1 mod 4 and N a power of two, where p-1 = 2^a * u, S = min(N, 2^{a-1}),
// d = N/S and zeta_i = w^{2i+1} for w a primitive 2S-th root of unity.
// Each factor is a field isomorphic to F_{p^d}. Slots are all represented in
// the common field Z_p[X]/(X^d - zeta_0), the i-th slot being mapped by Y -> X^{2i+1}.
type SlotDecomposition struct {
	ring  *CyclotomicRing
	field *ExtensionField
	zetas []uint64
	// exponents[i] = 2i+1 and inverses[i] = (2i+1)^{-1} mod 2N, the order of X in every slot
	exponents []uint64
	inverses  []uint64
	crt       *LagrangeBasis
}

// NewSlotDecomposition creates a new [SlotDecomposition] for the ring r.
// Returns an error if p != 1 mod 4.
func NewSlotDecomposition(r *CyclotomicRing) (sd *SlotDecomposition, err error) {

	p := r.Modulus()

	if p&3 != 1 {
		return nil, fmt.Errorf("NewSlotDecomposition: p=%d != 1 mod 4", p)
	}

	a := bits.TrailingZeros64(p - 1)

	S := min(r.N(), 1<<(a-1))
	d := r.N() / S

	var g uint64
	if g, _, err = PrimitiveRoot(p); err != nil {
		return nil, fmt.Errorf("NewSlotDecomposition: %w", err)
	}

	twoS := uint64(S) << 1

	// primitive 2S-th root of unity
	w := ModExp(g, (p-1)/twoS, p)

	sd = &SlotDecomposition{
		ring:      r,
		zetas:     make([]uint64, S),
		exponents: make([]uint64, S),
		inverses:  make([]uint64, S),
	}

	NthRoot := r.NthRoot()

	for i := 0; i < S; i++ {
		e := uint64(2*i + 1)
		sd.exponents[i] = e
		// (Z/2NZ)^* has exponent dividing N
		sd.inverses[i] = ModExp(e, uint64(r.N())-1, NthRoot)
		sd.zetas[i] = ModExp(w, e, p)
	}

	if sd.field, err = NewBinomialField(p, d, sd.zetas[0]); err != nil {
		return nil, fmt.Errorf("NewSlotDecomposition: %w", err)
	}

	if sd.crt, err = NewLagrangeBasis(sd.zetas, p); err != nil {
		return nil, fmt.Errorf("NewSlotDecomposition: %w", err)
	}

	return
}

// Ring returns the underlying [CyclotomicRing].
func (sd *SlotDecomposition) Ring() *CyclotomicRing {
	return sd.ring
}

// Field returns the common slot field Z_p[X]/(X^d - zeta_0).
func (sd *SlotDecomposition) Field() *ExtensionField {
	return sd.field
}

// Slots returns the number of slots S.
func (sd *SlotDecomposition) Slots() int {
	return len(sd.zetas)
}

// SlotDegree returns the extension degree d of each slot.
func (sd *SlotDecomposition) SlotDegree() int {
	return sd.field.Degree()
}

// Split returns the S slots of f, each in the common slot field.
func (sd *SlotDecomposition) Split(f Poly) (slots []Poly, err error) {

	N := sd.ring.N()

	if len(f) != N {
		return nil, fmt.Errorf("Split: len(f)=%d != N=%d", len(f), N)
	}

	p := sd.ring.Modulus()
	S, d := sd.Slots(), sd.SlotDegree()

	slots = make([]Poly, S)

	column := make([]uint64, S)

	for i := range slots {
		slots[i] = NewPoly(d)
	}

	for r := 0; r < d; r++ {

		for j := 0; j < S; j++ {
			column[j] = f[j*d+r]
		}

		for i := 0; i < S; i++ {
			slots[i][r] = EvalPolyModP(sd.zetas[i], column, p)
		}
	}

	for i := range slots {
		slots[i] = substitute(slots[i], sd.exponents[i], sd.zetas[0], p)
	}

	return
}

// Merge returns the unique f in Z_p[X]/(X^N+1) whose slots are the given
// elements of the common slot field.
func (sd *SlotDecomposition) Merge(slots []Poly) (f Poly, err error) {

	S, d := sd.Slots(), sd.SlotDegree()

	if len(slots) != S {
		return nil, fmt.Errorf("Merge: len(slots)=%d != S=%d", len(slots), S)
	}

	p := sd.ring.Modulus()

	local := make([]Poly, S)
	for i := range slots {
		if len(slots[i]) > d {
			return nil, fmt.Errorf("Merge: len(slots[%d])=%d > d=%d", i, len(slots[i]), d)
		}
		s := NewPoly(d)
		copy(s, slots[i])
		local[i] = substitute(s, sd.inverses[i], sd.zetas[i], p)
	}

	f = sd.ring.NewPoly()

	values := make([]uint64, S)
	for r := 0; r < d; r++ {

		for i := 0; i < S; i++ {
			values[i] = local[i][r]
		}

		var column Poly
		if column, err = sd.crt.Interpolate(values); err != nil {
			return nil, fmt.Errorf("Merge: %w", err)
		}

		for j := 0; j < S; j++ {
			f[j*d+r] = column[j]
		}
	}

	return
}

// substitute returns a(X^e) mod X^d - zeta.
func substitute(a Poly, e, zeta, p uint64) (b Poly) {
	d := uint64(len(a))
	b = NewPoly(len(a))
	for r, c := range a {
		if c == 0 {
			continue
		}
		// r*e = q*d + s
		re := uint64(r) * e
		b[re%d] = AddMod(b[re%d], MulMod(c, ModExp(zeta, re/d, p), p), p)
	}
	return
}
