package ring

import (
	"fmt"
	"math/bits"
)

// NTTTable stores the constants of the negacyclic NTT in Z_p[X]/(X^N+1).
// It exists only if 2N divides p-1.
type NTTTable struct {
	PrimitiveRoot uint64   // 2N-th primitive root psi
	RootsForward  []uint64 // powers of psi in bit-reversed order
	RootsBackward []uint64 // powers of psi^{-1} in bit-reversed order
	NInv          uint64   // N^{-1} mod p
}

// NewNTTTable generates the [NTTTable] of Z_p[X]/(X^N+1).
// Returns an error if 2N does not divide p-1.
func NewNTTTable(N int, p uint64) (table *NTTTable, err error) {

	NthRoot := uint64(N) << 1

	if (p-1)%NthRoot != 0 {
		return nil, fmt.Errorf("NewNTTTable: 2N=%d does not divide p-1=%d", NthRoot, p-1)
	}

	var g uint64
	if g, _, err = PrimitiveRoot(p); err != nil {
		return nil, fmt.Errorf("NewNTTTable: %w", err)
	}

	psi := ModExp(g, (p-1)/NthRoot, p)

	var psiInv, NInv uint64
	if psiInv, err = ModInverse(psi, p); err != nil {
		return nil, fmt.Errorf("NewNTTTable: %w", err)
	}

	if NInv, err = ModInverse(uint64(N)%p, p); err != nil {
		return nil, fmt.Errorf("NewNTTTable: %w", err)
	}

	table = &NTTTable{
		PrimitiveRoot: psi,
		RootsForward:  make([]uint64, N),
		RootsBackward: make([]uint64, N),
		NInv:          NInv,
	}

	logN := bits.Len64(uint64(N)) - 1

	powFwd, powBwd := uint64(1), uint64(1)
	for i := 0; i < N; i++ {
		j := bitReverse(uint64(i), logN)
		table.RootsForward[j] = powFwd
		table.RootsBackward[j] = powBwd
		powFwd = MulMod(powFwd, psi, p)
		powBwd = MulMod(powBwd, psiInv, p)
	}

	return
}

func bitReverse(x uint64, logN int) uint64 {
	if logN == 0 {
		return 0
	}
	return bits.Reverse64(x) >> (64 - logN)
}

// Forward writes the forward NTT of p1 on p2.
func (table *NTTTable) Forward(p1, p2 []uint64, p uint64) {

	N := len(table.RootsForward)

	if len(p1) < N || len(p2) < N {
		panic(fmt.Sprintf("cannot Forward: ensure that len(p1)=%d and len(p2)=%d >= N=%d", len(p1), len(p2), N))
	}

	copy(p2, p1[:N])

	roots := table.RootsForward

	t := N
	for m := 1; m < N; m <<= 1 {

		t >>= 1

		for i := 0; i < m; i++ {

			j1 := (i * t) << 1
			F := roots[m+i]

			for jx, jy := j1, j1+t; jx < j1+t; jx, jy = jx+1, jy+1 {
				p2[jx], p2[jy] = butterfly(p2[jx], p2[jy], F, p)
			}
		}
	}
}

// Backward writes the backward NTT of p1 on p2.
func (table *NTTTable) Backward(p1, p2 []uint64, p uint64) {

	N := len(table.RootsBackward)

	if len(p1) < N || len(p2) < N {
		panic(fmt.Sprintf("cannot Backward: ensure that len(p1)=%d and len(p2)=%d >= N=%d", len(p1), len(p2), N))
	}

	copy(p2, p1[:N])

	roots := table.RootsBackward

	t := 1
	for m := N; m > 1; m >>= 1 {

		h := m >> 1

		for i, j1 := 0, 0; i < h; i, j1 = i+1, j1+2*t {

			F := roots[h+i]

			for jx, jy := j1, j1+t; jx < j1+t; jx, jy = jx+1, jy+1 {
				p2[jx], p2[jy] = invbutterfly(p2[jx], p2[jy], F, p)
			}
		}

		t <<= 1
	}

	for i := range p2[:N] {
		p2[i] = MulMod(p2[i], table.NInv, p)
	}
}

// butterfly returns (U + V*Psi, U - V*Psi) mod p.
func butterfly(U, V, Psi, p uint64) (X, Y uint64) {
	V = MulMod(V, Psi, p)
	return AddMod(U, V, p), SubMod(U, V, p)
}

// invbutterfly returns (U + V, (U - V) * Psi) mod p.
func invbutterfly(U, V, Psi, p uint64) (X, Y uint64) {
	return AddMod(U, V, p), MulMod(SubMod(U, V, p), Psi, p)
}
