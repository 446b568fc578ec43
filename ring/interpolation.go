package ring

import (
	"fmt"
	"slices"
)

// LagrangeBasis stores, for a fixed set of k distinct evaluation points
// x_0, ..., x_{k-1} mod p, the k indicator polynomials L_i of degree < k
// such that L_i(x_j) = 1 if i = j and 0 otherwise.
//
// LagrangeBasis is immutable once created and can be shared between goroutines.
type LagrangeBasis struct {
	p      uint64
	points []uint64
	basis  []Poly
}

// NewLagrangeBasis creates a new [LagrangeBasis] for the given points.
// Returns an error if p is not prime, if points is empty, or if the
// points are not pairwise distinct residues in [0, p).
func NewLagrangeBasis(points []uint64, p uint64) (lb *LagrangeBasis, err error) {

	if err = CheckPrime(p); err != nil {
		return nil, fmt.Errorf("NewLagrangeBasis: %w", err)
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("NewLagrangeBasis: empty evaluation points")
	}

	seen := make(map[uint64]int, len(points))
	for i, x := range points {
		if x >= p {
			return nil, fmt.Errorf("NewLagrangeBasis: point[%d]=%d is not a residue mod %d", i, x, p)
		}
		if j, ok := seen[x]; ok {
			return nil, fmt.Errorf("NewLagrangeBasis: point[%d] = point[%d] = %d", j, i, x)
		}
		seen[x] = i
	}

	k := len(points)

	lb = &LagrangeBasis{
		p:      p,
		points: slices.Clone(points),
		basis:  make([]Poly, k),
	}

	for i, xi := range points {

		// c = prod_{j != i} (X - x_j)
		c := make(Poly, 1, k)
		c[0] = 1

		// den = prod_{j != i} (x_i - x_j)
		den := uint64(1)

		for j, xj := range points {

			if j == i {
				continue
			}

			c = mulByLinear(c, xj, p)
			den = MulMod(den, SubMod(xi, xj, p), p)
		}

		var inv uint64
		if inv, err = ModInverse(den, p); err != nil {
			// Unreachable for distinct points.
			return nil, fmt.Errorf("NewLagrangeBasis: %w", err)
		}

		for t := range c {
			c[t] = MulMod(c[t], inv, p)
		}

		lb.basis[i] = c
	}

	return
}

// K returns the number of evaluation points.
func (lb *LagrangeBasis) K() int {
	return len(lb.points)
}

// Modulus returns the prime modulus p.
func (lb *LagrangeBasis) Modulus() uint64 {
	return lb.p
}

// Points returns a copy of the evaluation points.
func (lb *LagrangeBasis) Points() []uint64 {
	return slices.Clone(lb.points)
}

// Vector returns a copy of the coefficients of the i-th basis polynomial.
func (lb *LagrangeBasis) Vector(i int) Poly {
	return lb.basis[i].Clone()
}

// Interpolate returns the unique polynomial P of degree < k such that
// P(x_i) = values[i] mod p, with P = sum_i values[i] * L_i.
func (lb *LagrangeBasis) Interpolate(values []uint64) (poly Poly, err error) {

	if len(values) != len(lb.points) {
		return nil, fmt.Errorf("Interpolate: len(values)=%d != k=%d", len(values), len(lb.points))
	}

	p := lb.p
	poly = NewPoly(len(lb.points))

	for i, v := range values {
		if v %= p; v == 0 {
			continue
		}
		for t, b := range lb.basis[i] {
			poly[t] = AddMod(poly[t], MulMod(b, v, p), p)
		}
	}

	return
}

// Evaluate returns [P(x_0), ..., P(x_{k-1})] mod p.
func (lb *LagrangeBasis) Evaluate(poly Poly) (values []uint64) {
	values = make([]uint64, len(lb.points))
	if poly.IsZero() {
		return
	}
	for i, x := range lb.points {
		values[i] = EvalPolyModP(x, poly, lb.p)
	}
	return
}
