package fimd

import (
	"fmt"

	"github.com/phuocchubeo123/fimd/ring"
)

// EvaluateXNORSum returns the linearization at the given level of
//
//	sum_b XNOR(x[b], y[b]),  XNOR(x, y) = x * (2y - 1) + (1 - y)
//
// where x[b] is the packed b-th bit of the receiver's values and y[b][i] is the
// packing, in slot i, of the b-th bit of the sender's values. Each packed
// position of the result holds the number of bits on which both values agree.
func EvaluateXNORSum[T, C any](lin *Linearizer[T, C], x []T, y [][]ring.Poly, level Level) (res T, err error) {

	if len(x) == 0 || len(x) != len(y) {
		return res, fmt.Errorf("cannot EvaluateXNORSum: %w: len(x)=%d, len(y)=%d", ErrInvalidInput, len(x), len(y))
	}

	eval := lin.eval
	p := lin.params.p

	for b := range x {

		scale := make([]ring.Poly, len(y[b]))
		shift := make([]ring.Poly, len(y[b]))

		for i, pt := range y[b] {

			for j, c := range pt {
				if c >= p {
					return res, fmt.Errorf("cannot EvaluateXNORSum: %w: bit %d slot %d coefficient %d=%d >= P=%d", ErrInvalidInput, b, i, j, c, p)
				}
			}

			// 2y - 1
			scale[i] = affine(pt, 2, p-1, p)
			// 1 - y
			shift[i] = affine(pt, p-1, 1, p)
		}

		var a, c C
		if a, err = eval.EncodeConstant(scale); err != nil {
			return res, fmt.Errorf("cannot EvaluateXNORSum: bit %d: %w", b, err)
		}

		if c, err = eval.EncodeConstant(shift); err != nil {
			return res, fmt.Errorf("cannot EvaluateXNORSum: bit %d: %w", b, err)
		}

		var xnor T
		if xnor, err = eval.MulConstantNew(x[b], a); err != nil {
			return res, fmt.Errorf("cannot EvaluateXNORSum: bit %d: %w", b, err)
		}

		if xnor, err = eval.AddConstantNew(xnor, c); err != nil {
			return res, fmt.Errorf("cannot EvaluateXNORSum: bit %d: %w", b, err)
		}

		if b == 0 {
			res = xnor
		} else if res, err = eval.AddNew(res, xnor); err != nil {
			return res, fmt.Errorf("cannot EvaluateXNORSum: bit %d: %w", b, err)
		}
	}

	return lin.Linearize(res, level)
}

// EvaluateBitMatch returns, in each packed position, 1 if the receiver's and the
// sender's values agree on all the len(x) bits and 0 otherwise. See [EvaluateXNORSum]
// for the layout of x and y. All the products are linearized at the given level.
// P must be larger than the number of bits.
func EvaluateBitMatch[T, C any](lin *Linearizer[T, C], x []T, y [][]ring.Poly, level Level) (res T, err error) {

	var coeffs ring.Poly
	if coeffs, err = GenerateBitComparePolynomial(len(x), lin.params.p); err != nil {
		return res, fmt.Errorf("cannot EvaluateBitMatch: %w", err)
	}

	var sum T
	if sum, err = EvaluateXNORSum(lin, x, y, level); err != nil {
		return res, fmt.Errorf("cannot EvaluateBitMatch: %w", err)
	}

	return EvaluateBitCompare(lin, sum, coeffs, level)
}

// affine returns a*y + b mod p.
func affine(y ring.Poly, a, b, p uint64) (z ring.Poly) {
	z = ring.NewPoly(max(len(y), 1))
	for i, c := range y {
		z[i] = ring.MulMod(c, a, p)
	}
	z[0] = ring.AddMod(z[0], b, p)
	return
}
