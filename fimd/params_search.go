package fimd

import (
	"fmt"

	"github.com/phuocchubeo123/fimd/ring"
)

// PackingCandidate describes the packing capacity of the plaintext space
// Z_p[X]/(Phi_M(X)) for a power-of-two cyclotomic index M.
type PackingCandidate struct {
	P          uint64
	M          uint64
	SlotDegree int // ord_M(p)
	Slots      int // phi(M) / SlotDegree
	K          int // scalars packed per slot
	Packing    int // K * Slots
}

// ParametersLiteral returns the [ParametersLiteral] packing K scalars in slots of degree SlotDegree.
func (pc PackingCandidate) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		P:          pc.P,
		K:          pc.K,
		SlotDegree: pc.SlotDegree,
	}
}

// NewPackingCandidate returns the packing capacity of Z_p[X]/(X^{M/2}+1), M = 2^logM.
// Each slot is F_{p^d} with d = ord_M(p), and packs K = min(d/2, p) scalars.
func NewPackingCandidate(p uint64, logM int) (pc PackingCandidate, err error) {

	if logM < 2 || logM > 32 {
		return pc, fmt.Errorf("cannot NewPackingCandidate: %w: logM=%d must be in [2, 32]", ErrInvalidInput, logM)
	}

	if p == 2 {
		return pc, fmt.Errorf("cannot NewPackingCandidate: %w: p must be odd", ErrInvalidInput)
	}

	if err = ring.CheckPrime(p); err != nil {
		return pc, fmt.Errorf("cannot NewPackingCandidate: %w: %w", ErrInvalidInput, err)
	}

	M := uint64(1) << logM
	phi := M >> 1

	d := ring.MultiplicativeOrder(p, M)

	k := min(d/2, p)

	pc = PackingCandidate{
		P:          p,
		M:          M,
		SlotDegree: int(d),
		Slots:      int(phi / d),
		K:          int(k),
		Packing:    int(k * (phi / d)),
	}

	return
}

// SearchPackingParameters returns, for each prime p in [pMin, pMax], the packing
// capacity of the cyclotomic index M = 2^logM, keeping the candidates that pack
// at least minPacking scalars.
func SearchPackingParameters(pMin, pMax uint64, logM, minPacking int) (candidates []PackingCandidate, err error) {

	if pMin > pMax {
		return nil, fmt.Errorf("cannot SearchPackingParameters: %w: pMin=%d > pMax=%d", ErrInvalidInput, pMin, pMax)
	}

	for p := max(pMin, 3); p <= pMax; p++ {

		if !ring.IsPrime(p) {
			continue
		}

		var pc PackingCandidate
		if pc, err = NewPackingCandidate(p, logM); err != nil {
			return nil, fmt.Errorf("cannot SearchPackingParameters: %w", err)
		}

		if pc.Packing >= minPacking && pc.K > 0 {
			candidates = append(candidates, pc)
		}

		if p == ^uint64(0) {
			break
		}
	}

	return
}
